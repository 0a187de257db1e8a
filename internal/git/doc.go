// Package git reads repository history for the articles directory. It backs
// the "last updated" timestamps shown next to each article.
package git

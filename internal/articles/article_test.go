package articles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"vue-app-wide-modal-dialogs", "Vue App Wide Modal Dialogs"},
		{"foo_bar", "Foo Bar"},
		{"fooBar", "Foo Bar"},
		{"--foo-bar--", "Foo Bar"},
		{"FOO_BAR", "FOO BAR"},
		{"XMLHttpRequest", "XML Http Request"},
		{"2023-recap", "2023 Recap"},
		{"vue3Tips", "Vue 3 Tips"},
		{"don't-panic", "Dont Panic"},
		{"über cool", "Über Cool"},
		{"1st-post", "1st Post"},
		{"2nd-place", "2nd Place"},
		{"3rd_rock", "3rd Rock"},
		{"10th-anniversary", "10th Anniversary"},
		{"21st century", "21st Century"},
		{"4thOfJuly", "4th Of July"},
		{"2ND-PLACE", "2ND PLACE"},
		{"1th-wonder", "1 Th Wonder"},
		{"2nda", "2 Nda"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StartCase(tt.in))
		})
	}
}

func TestParseFilename(t *testing.T) {
	a := ParseFilename("vue-app-wide-modal-dialogs.md", "/articles")
	assert.Equal(t, "Vue App Wide Modal Dialogs", a.Text)
	assert.Equal(t, "/articles/vue-app-wide-modal-dialogs", a.Link)
	assert.Equal(t, "vue-app-wide-modal-dialogs.md", a.File)

	a = ParseFilename("/abs/path/hello-world.md", "/posts/")
	assert.Equal(t, "/posts/hello-world", a.Link)

	a = ParseFilename("root.md", "")
	assert.Equal(t, "/root", a.Link)
}

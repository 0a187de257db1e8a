package commands

import (
	"git.home.luguber.info/inful/docsite/internal/dialog"
	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// DialogCmd groups the dialog subcommands.
type DialogCmd struct {
	Confirm DialogConfirmCmd `cmd:"" help:"Show a confirmation dialog"`
	Notice  DialogNoticeCmd  `cmd:"" help:"Show a notice dialog"`
}

// DialogConfirmCmd implements 'dialog confirm'.
type DialogConfirmCmd struct {
	Message      string `short:"m" help:"Question to confirm" required:""`
	ConfirmLabel string `name:"confirm-label" help:"Label of the confirm button" default:"OK"`
	CancelLabel  string `name:"cancel-label" help:"Label of the cancel button" default:"Cancel"`
}

func (d *DialogConfirmCmd) Run(g *Global) error {
	return showDialog(g, func(bus *dialog.Bus) {
		dialog.OpenKind(bus, dialog.Confirm, dialog.ConfirmContext{
			Message:      d.Message,
			ConfirmLabel: d.ConfirmLabel,
			CancelLabel:  d.CancelLabel,
		})
	})
}

// DialogNoticeCmd implements 'dialog notice'.
type DialogNoticeCmd struct {
	Title   string `short:"t" help:"Notice title"`
	Message string `short:"m" help:"Notice text" required:""`
}

func (d *DialogNoticeCmd) Run(g *Global) error {
	return showDialog(g, func(bus *dialog.Bus) {
		dialog.OpenKind(bus, dialog.Notice, dialog.NoticeContext{Title: d.Title, Message: d.Message})
	})
}

// showDialog wires a bus to a terminal host, runs open and reports whether
// the host received the request.
func showDialog(g *Global, open func(*dialog.Bus)) error {
	bus := dialog.NewBus(dialog.WithLogger(g.Logger))
	host := dialog.NewHost(bus, dialog.DefaultRegistry(), g.Out, dialog.WithHostLogger(g.Logger))
	host.Attach()
	defer host.Detach()

	open(bus)

	if _, ok := host.Current(); !ok {
		return ferrors.DialogError("dialog was not delivered to the host").Build()
	}
	return nil
}

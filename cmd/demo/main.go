// Command demo hosts a small editor/list layout: a file-style list on
// the left, a multiline editor on the right, a draggable splitter
// between them, and a status label updated by a background tick.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vellum-ui/vellum"
)

func main() {
	screen, err := vellum.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(1)
	}
	defer screen.Fini()

	list := vellum.NewListView()
	list.SetSelectionMode(vellum.SelectionComplex)
	list.SetItems([]vellum.ListItem{
		{Text: "notes.txt", Icon: '•', Enabled: true},
		{Text: "draft.md", Icon: '•', Enabled: true},
		{Text: "todo.txt", Icon: '•', Enabled: true},
	})

	editor := vellum.NewEditor()
	editor.SetWrapMode(vellum.WordWrap)
	editor.SetText("Select a file on the left.\n\nEnter starts editing; Escape returns to browsing.")

	status := vellum.NewLabel("ready")
	list.OnItemActivated(func(i int) {
		editor.SetText("Contents of " + list.Items()[i].Text + "\n")
		status.SetText("opened " + list.Items()[i].Text)
	})

	left := vellum.NewColumn(list).SetFixedWidth(24)
	right := vellum.NewColumn(editor, status)
	grid := vellum.NewGrid(left, right)

	screen.SetRoot(grid)
	screen.SetTick(time.Second, func() {
		status.SetText(time.Now().Format("15:04:05"))
	})
	screen.Run(context.Background())
}

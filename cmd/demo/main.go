// Command demo draws a couple of overlapping, depth-ordered windows and
// waits for a keypress before restoring the terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"termwindow"
)

func main() {
	term, err := termwindow.Init(nil, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(1)
	}
	defer term.Restore()

	w, h := term.GetSize()

	background, err := termwindow.NewWindow(nil, h, w, 0, 0, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "new window:", err)
		return
	}
	background.Show()
	background.SetDefaultAttrs(termwindow.Attrs{FG: termwindow.ColorWhite, BG: termwindow.ColorBlue})
	background.SetPaint(0, 0)
	background.AddStr("termwindow demo - press any key to exit", termwindow.DefaultAttrs())

	box, err := termwindow.NewWindow(background, 5, 20, 2, 4, 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "new window:", err)
		return
	}
	box.Show()
	box.SetDefaultAttrs(termwindow.Attrs{FG: termwindow.ColorBlack, BG: termwindow.ColorWhite})
	box.Box(0, 0, 5, 20, termwindow.DefaultAttrs())
	box.SetPaint(2, 2)
	box.AddStr("hello, 世界", termwindow.Attrs{Flags: termwindow.FlagBold})

	if err := term.Update(); err != nil {
		fmt.Fprintln(os.Stderr, "update:", err)
		return
	}

	term.GetKeychar(30 * time.Second)
}

package tagver

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// Banner displays the tagver ASCII art logo.
func Banner(w io.Writer) {
	blue := color.RGB(73, 125, 194)
	grey := color.New(color.FgHiBlack)

	blue.Fprint(w, strings.TrimLeft(`
 _____  _    ___ __   __ ___  ___
|_   _|/_\  / __|\ \ / /| __|| _ \
  | | / _ \| (_ | \ V / | _| |   /
  |_|/_/ \_\\___|  \_/  |___||_|_\
`, "\n"))
	grey.Fprint(w, `
Tagver - Semantic version tags for your repositories, kept in sync.
https://github.com/linyows/tagver

`)
}

package display

import (
	"fmt"
	"os"

	"github.com/backmassage/reelsmith/internal/term"
)

const banner = `              _               _ _   _
 _ __ ___  ___| |___ _ __ ___ (_) |_| |__
| '__/ _ \/ _ \ / __| '_ ` + "`" + ` _ \| | __| '_ \
| | |  __/  __/ \__ \ | | | | | | |_| | | |
|_|  \___|\___|_|___/_| |_| |_|_|\__|_| |_|
`

// PrintBanner prints the startup banner, in magenta when colors are on.
func PrintBanner() {
	fmt.Fprintln(os.Stdout, term.Paint(term.Magenta, banner))
}

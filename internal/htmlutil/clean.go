package htmlutil

import (
	"github.com/k3a/html2text"
)

// ToText converts HTML to plain text using a proper HTML parser.
// Registry sources occasionally carry markup in descriptive fields;
// popup text must never ship raw HTML to the map layer.
func ToText(s string) string {
	return html2text.HTML2Text(s)
}

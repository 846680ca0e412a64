// Package dump implements the row-oriented renderer shared by the printHex
// and hexDiff commands: one function builds a row's hex and ASCII columns,
// so a fix to row padding can never desync the two views.
package dump

import (
	"fmt"
	"strings"

	"github.com/rair-go/rair/env"
)

// Renderer builds dump rows using glyphs and row width from cfg.
type Renderer struct {
	cfg env.Config
}

// New returns a Renderer reading its formatting from cfg.
func New(cfg env.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

const gapHex = "--"

// isPrintable reports whether b falls in the printable ASCII range
// (0x21-0x7E) used for the ASCII column.
func isPrintable(b byte) bool {
	return b >= 0x21 && b <= 0x7E
}

// Row renders one row of up to RowWidth bytes starting at addr: the
// address column, the hex column (space-separated byte pairs, padded to a
// full row so the ASCII column always aligns), and the ASCII column
// (printable bytes as-is, the configured glyph for non-printable bytes,
// and a distinct glyph for sparse gaps). present may be nil, meaning every
// byte in data is present. highlight may be nil, meaning no byte is
// highlighted; where non-nil, a true entry marks a byte that differs from
// its counterpart in a hexDiff pair.
func (r *Renderer) Row(addr uint64, data []byte, present, highlight []bool) string {
	width := r.cfg.RowWidth()
	var hexCols, asciiCols strings.Builder

	for i := 0; i < width; i++ {
		if i > 0 {
			hexCols.WriteByte(' ')
		}
		if i >= len(data) {
			hexCols.WriteString("  ")
			continue
		}
		gap := present != nil && !present[i]
		if gap {
			hexCols.WriteString(gapHex)
			asciiCols.WriteByte(r.cfg.GapGlyph())
			continue
		}
		b := data[i]
		if highlight != nil && highlight[i] {
			fmt.Fprintf(&hexCols, "%02X", b)
		} else {
			fmt.Fprintf(&hexCols, "%02x", b)
		}
		if isPrintable(b) {
			asciiCols.WriteByte(b)
		} else {
			asciiCols.WriteByte(r.cfg.NonPrintableGlyph())
		}
	}

	return fmt.Sprintf("0x%08x  %s  |%s|", addr, hexCols.String(), asciiCols.String())
}

// DiffBanner separates the two sides of a hexDiff row pair.
const DiffBanner = "----------------------------------------"

// DiffRows renders one row from each side of a hexDiff, with bytes that
// differ between the two (by position) uppercased in the hex column as the
// highlight.
func (r *Renderer) DiffRows(addrA uint64, dataA []byte, presentA []bool, addrB uint64, dataB []byte, presentB []bool) (rowA, rowB string) {
	width := r.cfg.RowWidth()
	highlightA := make([]bool, width)
	highlightB := make([]bool, width)
	for i := 0; i < width; i++ {
		aOK := i < len(dataA) && (presentA == nil || presentA[i])
		bOK := i < len(dataB) && (presentB == nil || presentB[i])
		if aOK && bOK && dataA[i] != dataB[i] {
			highlightA[i] = true
			highlightB[i] = true
		} else if aOK != bOK {
			highlightA[i] = aOK
			highlightB[i] = bOK
		}
	}
	return r.Row(addrA, dataA, presentA, highlightA), r.Row(addrB, dataB, presentB, highlightB)
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cheatsync/internal/models"
)

func printSheet(w io.Writer, s models.Sheet, names map[string]string) {
	fav := ""
	if s.Favorite {
		fav = " *"
	}
	fmt.Fprintf(w, "%s%s\n", s.Title, fav)
	fmt.Fprintf(w, "id: %s  category: %s  public: %t\n", s.ID, categoryLabel(s, names), s.IsPublic)
	fmt.Fprintf(w, "updated: %s\n", s.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if s.Description != "" {
		fmt.Fprintf(w, "\n%s\n", s.Description)
	}

	for i, b := range s.Content {
		mark := "[ ]"
		if b.IsRead {
			mark = "[x]"
		}
		header := fmt.Sprintf("%d. %s %s", i+1, mark, b.Kind)
		if b.Title != "" {
			header += ": " + b.Title
		}
		fmt.Fprintf(w, "\n%s\n", header)

		switch b.Kind {
		case models.BlockCode:
			fmt.Fprintln(w, "```")
			fmt.Fprintln(w, b.Body)
			fmt.Fprintln(w, "```")
		case models.BlockFormula:
			fmt.Fprintf(w, "$$ %s $$\n", b.Body)
		default:
			fmt.Fprintln(w, indent(b.Body, "  "))
		}
	}
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/cheatsync/internal/client/syncer"
	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/models"
)

var errUsage = errors.New("usage")

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}

// describeError turns an engine error into a line for the user.
func describeError(err error) string {
	var se *syncer.SyncError
	switch {
	case errors.Is(err, errUsage):
		return "Usage: " + strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
	case errors.As(err, &se) && se.Class == syncer.Permanent:
		return "The server rejected the change: " + se.Err.Error()
	case errors.Is(err, common.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, common.ErrInvalid):
		return "Invalid input: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}

func (a *App) notice(n string) {
	if n != "" {
		fmt.Fprintln(a.out, n)
	}
}

func (a *App) List(ctx context.Context, args []string) error {
	snap := a.session.View()

	var filter models.Category
	if len(args) > 0 {
		filter = models.Category(strings.ToLower(args[0]))
		if !filter.Valid() {
			return usage("list [" + joinCategories() + "]")
		}
	}

	names := categoryNames(snap.Categories)

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tFAV\tUPDATED")
	n := 0
	for _, s := range snap.Sheets {
		if filter != "" && s.Category != filter {
			continue
		}
		fav := ""
		if s.Favorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Title, categoryLabel(s, names), fav, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(a.out, "No sheets.")
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <id>")
	}
	s, found, err := a.session.Read(ctx, args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: sheet %s", common.ErrNotFound, args[0])
	}
	printSheet(a.out, s, categoryNames(a.session.View().Categories))
	return nil
}

func (a *App) New(ctx context.Context) error {
	var d models.SheetDraft
	var err error

	if d.Title, err = GetSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if d.Description, err = GetSimpleText(a.reader, "Description (optional)", a.out); err != nil {
		return err
	}
	if d.Category, d.CustomCategoryRef, err = a.promptCategory(models.CategoryOther); err != nil {
		return err
	}
	if d.IsPublic, err = GetYesNo(a.reader, "Public?", false, a.out); err != nil {
		return err
	}
	if d.Content, err = a.promptBlocks(); err != nil {
		return err
	}

	c, err := a.session.Create(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s\n", c.Record.ID)
	a.notice(c.Notice())
	return nil
}

// Edit asks for every field; an empty answer keeps the current value.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("edit <id>")
	}
	cur, ok := a.session.View().Sheet(args[0])
	if !ok {
		return fmt.Errorf("%w: sheet %s", common.ErrNotFound, args[0])
	}

	var p models.SheetPatch

	title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", cur.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" && title != cur.Title {
		p.Title = &title
	}

	desc, err := GetSimpleText(a.reader, "Description (empty keeps, '-' clears)", a.out)
	if err != nil {
		return err
	}
	switch desc {
	case "":
	case "-":
		p.Description = models.Ptr("")
	default:
		p.Description = &desc
	}

	cat, ref, err := a.promptCategory(cur.Category)
	if err != nil {
		return err
	}
	if cat != cur.Category || ref != cur.CustomCategoryRef {
		p.Category = &cat
		p.CustomCategoryRef = &ref
	}

	replace, err := GetYesNo(a.reader, "Replace content?", false, a.out)
	if err != nil {
		return err
	}
	if replace {
		blocks, err := a.promptBlocks()
		if err != nil {
			return err
		}
		p.Content = &blocks
	}

	if p.IsEmpty() {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	c, err := a.session.Update(ctx, cur.ID, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", c.Record.ID)
	a.notice(c.Notice())
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <id>")
	}
	c, err := a.session.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %q\n", c.Record.Title)
	a.notice(c.Notice())
	return nil
}

func (a *App) Favorite(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("fav <id>")
	}
	c, err := a.session.ToggleFavorite(ctx, args[0])
	if err != nil {
		return err
	}
	if c.Record.Favorite {
		fmt.Fprintf(a.out, "%q added to favorites\n", c.Record.Title)
	} else {
		fmt.Fprintf(a.out, "%q removed from favorites\n", c.Record.Title)
	}
	a.notice(c.Notice())
	return nil
}

// MarkRead accepts a block id or its 1-based position.
func (a *App) MarkRead(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("read <id> <block>")
	}
	blockID := args[1]
	if cur, ok := a.session.View().Sheet(args[0]); ok {
		if i, err := strconv.Atoi(blockID); err == nil && i >= 1 && i <= len(cur.Content) {
			blockID = cur.Content[i-1].ID
		}
	}

	c, err := a.session.ToggleBlockRead(ctx, args[0], blockID)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(c.Record.Content, func(b models.ContentBlock) bool { return b.ID == blockID })
	if i >= 0 && c.Record.Content[i].IsRead {
		fmt.Fprintf(a.out, "Block %d marked as read\n", i+1)
	} else {
		fmt.Fprintf(a.out, "Block %d marked as unread\n", i+1)
	}
	a.notice(c.Notice())
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	cats := a.session.View().Categories
	if len(cats) == 0 {
		fmt.Fprintln(a.out, "No custom categories.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tICON")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Color, c.Icon)
	}
	return tw.Flush()
}

func (a *App) NewCategory(ctx context.Context) error {
	var d models.CategoryDraft
	var err error
	if d.Name, err = GetSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if d.Color, err = GetSimpleText(a.reader, "Color (optional)", a.out); err != nil {
		return err
	}
	if d.Icon, err = GetSimpleText(a.reader, "Icon (optional)", a.out); err != nil {
		return err
	}

	c, err := a.session.CreateCategory(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created category %s\n", c.Record.ID)
	a.notice(c.Notice())
	return nil
}

func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delcat <id>")
	}
	c, err := a.session.DeleteCategory(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted category %q; its sheets moved to %q\n", c.Record.Name, models.CategoryOther)
	a.notice(c.Notice())
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.session.Refresh(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d sheets\n", len(a.session.View().Sheets))
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if !a.session.Online() {
		fmt.Fprintln(a.out, "Offline; changes will sync when the server is reachable.")
		return nil
	}
	if err := a.session.Sync(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Synchronized.")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	n, err := a.session.Pending(ctx)
	if err != nil {
		return err
	}
	snap := a.session.View()
	fmt.Fprintf(a.out, "mode: %s\nsheets: %d\ncategories: %d\nqueued changes: %d\n",
		modeOf(snap.Online), len(snap.Sheets), len(snap.Categories), n)
	return nil
}

// promptCategory asks for a built-in category and, for custom, which custom
// category to use.
func (a *App) promptCategory(def models.Category) (models.Category, string, error) {
	options := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		options[i] = string(c)
	}
	answer, err := GetChoice(a.reader, "Category", options, string(def), a.out)
	if err != nil {
		return "", "", err
	}
	cat := models.Category(answer)
	if cat != models.CategoryCustom {
		return cat, "", nil
	}

	cats := a.session.View().Categories
	if len(cats) == 0 {
		return "", "", fmt.Errorf("%w: no custom categories yet, create one with newcat", common.ErrInvalid)
	}
	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
		fmt.Fprintf(a.out, "  %s  %s\n", c.ID, c.Name)
	}
	ref, err := GetChoice(a.reader, "Custom category id", ids, ids[0], a.out)
	if err != nil {
		return "", "", err
	}
	return cat, ref, nil
}

// promptBlocks collects content blocks until an empty kind is entered.
func (a *App) promptBlocks() ([]models.ContentBlock, error) {
	var blocks []models.ContentBlock
	for {
		kind, err := GetChoice(a.reader, fmt.Sprintf("Block %d kind (empty to finish)", len(blocks)+1),
			[]string{string(models.BlockText), string(models.BlockFormula), string(models.BlockCode)}, "", a.out)
		if err != nil {
			return nil, err
		}
		if kind == "" {
			return blocks, nil
		}
		title, err := GetSimpleText(a.reader, "Block title (optional)", a.out)
		if err != nil {
			return nil, err
		}
		body, err := GetMultiline(a.reader, "Block body", a.out)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, models.ContentBlock{Kind: models.BlockKind(kind), Title: title, Body: body})
	}
}

func joinCategories() string {
	s := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		s[i] = string(c)
	}
	return strings.Join(s, "|")
}

func categoryNames(cats []models.CustomCategory) map[string]string {
	m := make(map[string]string, len(cats))
	for _, c := range cats {
		m[c.ID] = c.Name
	}
	return m
}

func categoryLabel(s models.Sheet, names map[string]string) string {
	if s.Category != models.CategoryCustom {
		return string(s.Category)
	}
	if n, ok := names[s.CustomCategoryRef]; ok {
		return n
	}
	return string(models.CategoryCustom)
}

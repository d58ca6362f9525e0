package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/kind"
)

func (c *CLI) addCommand() *cobra.Command {
	var (
		logo      string
		container int
	)

	cmd := &cobra.Command{
		Use:   "add NAME LINK",
		Short: "Add a shortcut tile to a page",
		Long: `Add a shortcut tile. Without --container the tile joins the first
shortcut group; a page without one gets a new group in front of its
insertion point.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			it := document.Item{Name: args[0], Link: args[1], Logo: logo}
			if err := errors.ValidateItemName(it.Name); err != nil {
				return err
			}
			if err := errors.ValidateURL(it.Link); err != nil {
				return err
			}

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := c.loadPage(ctx, s)
			if err != nil {
				return err
			}
			ci, err := addItem(c.Kinds, doc, container, it)
			if err != nil {
				return err
			}
			if err := c.savePage(ctx, s, doc); err != nil {
				return err
			}
			printSuccess("Added %s to container %d", StyleValue.Render(it.Name), ci)
			return nil
		},
	}

	cmd.Flags().StringVar(&logo, "logo", "", "logo image URL")
	cmd.Flags().IntVar(&container, "container", -1, "destination container index")
	return cmd
}

// addItem appends it to container ci, or to the first regular container
// when ci is negative, creating one when the page has none. It returns the
// container index used.
func addItem(kinds *kind.Registry, doc *document.Document, ci int, it document.Item) (int, error) {
	if ci >= 0 {
		return ci, doc.AppendItem(ci, it)
	}
	for i, c := range doc.Elements {
		if !c.Sentinel() {
			return i, doc.AppendItem(i, it)
		}
	}

	sc, err := kinds.Lookup(document.TypeShortcut)
	if err != nil {
		return -1, err
	}
	group := sc.Default()
	group.Content = []document.Item{it}
	idx := len(doc.Elements)
	for i, c := range doc.Elements {
		if c.Sentinel() {
			idx = i
			break
		}
	}
	return idx, doc.InsertContainer(idx, group)
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/kind"
	"github.com/matzehuels/startpage/pkg/layout"
	"github.com/matzehuels/startpage/pkg/surface"
)

func (c *CLI) rowsCommand() *cobra.Command {
	var (
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "rows",
		Short: "Print the row index the drag engine sees for each container",
		Long: `Mount the page on a headless surface of the given viewport size and print,
for every container, the rows its tiles cluster into with their vertical
and horizontal centres. Drops insert before the nearest tile to the right
in the row closest to the pointer.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := c.loadPage(ctx, s)
			if err != nil {
				return err
			}
			tree, err := mountHeadless(c.Kinds, doc, width, height)
			if err != nil {
				return err
			}
			writeRows(cmd.OutOrStdout(), tree)
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "width", 1280, "viewport width in layout units")
	cmd.Flags().Float64Var(&height, "height", 800, "viewport height in layout units")
	return cmd
}

func mountHeadless(kinds *kind.Registry, doc *document.Document, w, h float64) (*surface.Tree, error) {
	tree := surface.NewTree(w, h)
	if err := tree.Mount(doc, kinds.Resolve); err != nil {
		return nil, err
	}
	return tree, nil
}

func writeRows(w io.Writer, tree *surface.Tree) {
	for ci, container := range tree.Backed() {
		r := container.Bounds()
		fmt.Fprintf(w, "%s %s %s\n",
			StyleNumber.Render(fmt.Sprintf("[%d]", ci)),
			container.Kind,
			StyleDim.Render(fmt.Sprintf("x=%.1f y=%.1f w=%.1f h=%.1f", r.X, r.Y, r.W, r.H)))

		tiles := container.Tiles()
		if len(tiles) == 0 {
			fmt.Fprintln(w, "  "+StyleDim.Render("(no tiles)"))
			continue
		}
		elems := make([]layout.Element, len(tiles))
		for i, t := range tiles {
			elems[i] = t
		}
		idx := layout.BuildRows(elems, nil)
		for ri, row := range idx.Rows {
			fmt.Fprintf(w, "  row %d %s", ri, StyleDim.Render(fmt.Sprintf("cy=%.1f", row.Center)))
			for _, m := range row.Members {
				fmt.Fprintf(w, "  %s%s", m.Element.(*surface.Node).Item.Name, StyleDim.Render(fmt.Sprintf("@%.1f", m.Center)))
			}
			fmt.Fprintln(w)
		}
	}
}

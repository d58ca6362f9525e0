package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/kind"
)

func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move FROM TO",
		Short: "Move a tile without the editor",
		Long: `Move a tile the way a drop would. Positions are CONTAINER.ITEM as
printed by "startpage show". TO may also be:

  new:N    wrap the tile into a new group placed before container N
  delete   remove the tile

Containers emptied by the move are removed.`,
		Example: `  startpage move 0.2 1.0
  startpage move 0.0 new:1
  startpage move 1.3 delete`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			from, err := parsePosition(args[0])
			if err != nil {
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
			it, err := doc.Item(from)
			if err != nil {
				return err
			}
			if err := applyMove(c.Kinds, doc, from, args[1]); err != nil {
				return err
			}
			if err := c.savePage(ctx, s, doc); err != nil {
				return err
			}
			printSuccess("Moved %s %s %s", StyleValue.Render(it.Name), iconArrow, args[1])
			return nil
		},
	}
}

// applyMove performs the move named by dest on doc.
func applyMove(kinds *kind.Registry, doc *document.Document, from document.Position, dest string) error {
	switch {
	case dest == "delete":
		return doc.Delete(from)
	case strings.HasPrefix(dest, "new:"):
		idx, err := strconv.Atoi(strings.TrimPrefix(dest, "new:"))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPosition, err, "bad group index in %q", dest)
		}
		sc, err := kinds.Lookup(document.TypeShortcut)
		if err != nil {
			return err
		}
		return doc.MoveToNewGroup(from, idx, sc.Default())
	}
	to, err := parsePosition(dest)
	if err != nil {
		return err
	}
	return doc.Move(from, to)
}

// parsePosition parses "CONTAINER.ITEM".
func parsePosition(s string) (document.Position, error) {
	cs, is, ok := strings.Cut(s, ".")
	if !ok {
		return document.Position{}, errors.New(errors.ErrCodeInvalidPosition, "position %q is not CONTAINER.ITEM", s)
	}
	ci, err1 := strconv.Atoi(cs)
	ii, err2 := strconv.Atoi(is)
	if err1 != nil || err2 != nil || ci < 0 || ii < 0 {
		return document.Position{}, errors.New(errors.ErrCodeInvalidPosition, "position %q is not CONTAINER.ITEM", s)
	}
	return document.Position{Container: ci, Item: ii}, nil
}

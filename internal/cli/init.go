package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/startpage/pkg/document"
	"github.com/matzehuels/startpage/pkg/errors"
	"github.com/matzehuels/startpage/pkg/kind"
)

// sampleShortcuts seed a fresh page.
var sampleShortcuts = []document.Item{
	{Name: "Go", Link: "https://go.dev", Logo: "https://go.dev/favicon.ico"},
	{Name: "GitHub", Link: "https://github.com", Logo: "https://github.com/favicon.ico"},
	{Name: "Wikipedia", Link: "https://wikipedia.org", Logo: "https://wikipedia.org/favicon.ico"},
}

func (c *CLI) initCommand() *cobra.Command {
	var (
		newKey bool
		force  bool
		empty  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a page with a shortcut group and an insertion point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if newKey {
				c.Config.Page.Key = uuid.NewString()
			}
			key := c.Config.Page.Key

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			existing, err := s.Load(ctx, key)
			if err != nil && !force {
				return err
			}
			if existing != nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "page %q already exists (use --force to replace it)", key)
			}

			prog := newProgress(c.Logger)
			doc := newPage(c.Kinds, !empty)
			if err := c.savePage(ctx, s, doc); err != nil {
				return err
			}
			prog.done("page created", "page", key)

			printSuccess("Created page %s", StyleValue.Render(key))
			printNextStep("Arrange it", appName+" edit --page "+key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&newKey, "new", false, "generate a fresh page key")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing page")
	cmd.Flags().BoolVar(&empty, "empty", false, "start without sample shortcuts")
	return cmd
}

// newPage returns a page holding one shortcut group followed by the
// insertion point sentinel.
func newPage(kinds *kind.Registry, samples bool) *document.Document {
	doc := document.New()
	if sc, err := kinds.Lookup(document.TypeShortcut); err == nil && samples {
		group := sc.Default()
		group.Content = append(group.Content, sampleShortcuts...)
		doc.Elements = append(doc.Elements, group)
	}
	if ip, err := kinds.Lookup(document.TypeInsertionPoint); err == nil {
		doc.Elements = append(doc.Elements, ip.Default())
	}
	return doc
}

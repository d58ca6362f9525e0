package cli

import (
	"github.com/spf13/cobra"
)

func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the containers and tiles of a page",
		Args:  cobra.NoArgs,
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
			if asJSON {
				data, err := doc.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			printPage(c.Config.Page.Key, doc)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored JSON document")
	return cmd
}

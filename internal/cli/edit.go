package cli

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/startpage/pkg/anim"
	"github.com/matzehuels/startpage/pkg/drag"
	"github.com/matzehuels/startpage/pkg/surface"
)

func (c *CLI) editCommand() *cobra.Command {
	var (
		touch   bool
		view    bool
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Rearrange a page in the terminal with the mouse",
		Long: `Open the page in a full-screen editor. Drag tiles with the mouse: drop them
between other tiles, on a dashed "new group" strip to start a group, or on
the Delete zone to remove them. Every drop is saved immediately. A page
kept in the file store is reloaded when another program changes it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Editor
			if cmd.Flags().Changed("touch") {
				cfg.Touch = touch
			}
			if view {
				cfg.Edit = false
			}

			// The alternate screen owns the terminal; editor logs go to a
			// file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger := newLogger(w, log.DebugLevel)

			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()
			doc, err := c.loadPage(ctx, s)
			if err != nil {
				return err
			}

			tree := surface.NewTree(80*cfg.CellWidth, 22*cfg.CellHeight)
			if err := tree.Mount(doc, c.Kinds.Resolve); err != nil {
				return err
			}
			if cfg.Edit {
				tree.StartEdit()
			}

			loop := drag.NewLoop(nil)
			timeline := anim.NewTimeline(nil)
			ctrl, err := drag.NewController(drag.Config{
				Tree:      tree,
				Document:  doc,
				Store:     s,
				Key:       c.Config.Page.Key,
				Scheduler: loop,
				Kinds:     c.Kinds,
				Player:    timeline,
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			m := newEditorModel(ctx, editorDeps{
				Key:      c.Config.Page.Key,
				Store:    s,
				Ctrl:     ctrl,
				Tree:     tree,
				Loop:     loop,
				Timeline: timeline,
				Logger:   logger,
				Config:   cfg,
			})
			if err := m.watch(ctx); err != nil {
				c.Logger.Warn("page will not reload on external changes", "err", err)
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&touch, "touch", false, "use touch semantics: hit-test the drop target under the pointer")
	cmd.Flags().BoolVar(&view, "view", false, "start with edit mode off")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write editor debug logs to this file")
	return cmd
}

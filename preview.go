package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/render"
	"github.com/Zachkp/folio/internal/termview"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Prints the rendered sections to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		tree := render.NewPageTree()
		o := render.New(content.NewLoader(appConfig.FetchTimeout), logger)
		rep := o.Run(cmd.Context(), appConfig.Content, tree)
		if rep.State == render.Failed {
			return rep.Err
		}

		theme := termview.DefaultTheme(render.NewRules(o.Document().Styling))
		fmt.Fprint(cmd.OutOrStdout(), theme.Render(previewSections(tree)...))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

// previewSections orders the mounted fragments as the page does. The two
// know-how columns are shown as one list.
func previewSections(tree *render.Tree) []termview.Section {
	sections := []termview.Section{
		{Title: "Who am I", Nodes: tree.Nodes(render.WhoAmIContainer)},
		{Title: "Personal info", Nodes: tree.Nodes(render.PersonalInfoContainer)},
		{Title: "Know-how", Nodes: append(append([]render.Node{}, tree.Nodes(render.KnowHowLeftContainer)...), tree.Nodes(render.KnowHowRightContainer)...)},
		{Title: "Showcase", Nodes: tree.Nodes(render.ShowcaseContainer)},
		{Title: "Experience", Nodes: tree.Nodes(render.ExperienceContainer)},
		{Title: "Education", Nodes: tree.Nodes(render.EducationContainer)},
	}
	out := sections[:0]
	for _, s := range sections {
		if len(s.Nodes) > 0 {
			out = append(out, s)
		}
	}
	return out
}

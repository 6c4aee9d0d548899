package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fdeantoni/aduana"
	"github.com/fdeantoni/aduana/internal/prompt"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect NAME [TAG]",
	Short: "Show the details of one image tag",
	Long: `Show the resolved metadata for one tag of an image: user, environment,
command, working directory, labels, architecture, and creation time.

With no TAG and a terminal attached, prompts to pick one of the image's
tags. With no TAG otherwise, fails and lists the available tags.`,
	Example: `  # Inspect a specific tag
  aduana inspect myapp v1.2.0

  # Pick the tag interactively
  aduana inspect myapp

  # Render as YAML
  aduana inspect myapp latest --output yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		inspector, err := newInspector(cmd)
		if err != nil {
			return err
		}

		images, err := inspector.Images(cmd.Context())
		if err != nil {
			return fmt.Errorf("list images: %w", err)
		}

		var image *aduana.Image
		for _, candidate := range images {
			if candidate.Name() == name {
				image = candidate
				break
			}
		}
		if image == nil {
			return fmt.Errorf("image %q not found on %s", name, inspector.URL())
		}

		tag, err := resolveTag(args, image)
		if err != nil {
			return err
		}

		details, err := image.Details(cmd.Context(), tag)
		if err != nil {
			return fmt.Errorf("inspect %s:%s: %w", name, tag, err)
		}

		return renderDetails(details, format)
	},
}

// resolveTag picks the tag to inspect: the TAG argument when given, the only
// tag when there is exactly one, an interactive selection on a terminal, and
// an error otherwise.
func resolveTag(args []string, image *aduana.Image) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}

	tags := image.Tags()
	switch {
	case len(tags) == 0:
		return "", fmt.Errorf("image %q has no tags", image.Name())
	case len(tags) == 1:
		return tags[0], nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return "", fmt.Errorf("image %q has multiple tags, pass one of: %s",
			image.Name(), strings.Join(tags, ", "))
	}

	choice, err := prompt.New().Choice(fmt.Sprintf("Which tag of %s?", image.Name()), tags)
	if err != nil {
		if errors.Is(err, prompt.ErrCanceled) {
			return "", err
		}
		return "", fmt.Errorf("select tag: %w", err)
	}
	return tags[choice], nil
}

// renderDetails writes the details to stdout in the requested format.
func renderDetails(details *aduana.ImageDetails, format string) error {
	if format == "yaml" {
		out, err := yaml.Marshal(detailsDoc(details))
		if err != nil {
			return fmt.Errorf("render yaml: %w", err)
		}
		fmt.Print(string(out))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Name", details.Name},
		{"Tag", details.Tag},
		{"Architecture", details.Architecture},
		{"Created", details.Created},
		{"User", details.User},
		{"WorkingDir", details.WorkingDir},
		{"Cmd", strings.Join(details.Cmd, " ")},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s:\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write field: %w", err)
		}
	}
	for i, env := range details.Env {
		label := ""
		if i == 0 {
			label = "Env"
		}
		if _, err := fmt.Fprintf(w, "%s:\t%s\n", label, env); err != nil {
			return fmt.Errorf("write env: %w", err)
		}
	}
	first := true
	for key, value := range details.Labels {
		label := ""
		if first {
			label = "Labels"
			first = false
		}
		if _, err := fmt.Fprintf(w, "%s:\t%s=%s\n", label, key, value); err != nil {
			return fmt.Errorf("write label: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// detailsDoc shapes ImageDetails for YAML output with stable lowercase keys.
func detailsDoc(details *aduana.ImageDetails) map[string]any {
	return map[string]any{
		"name":         details.Name,
		"tag":          details.Tag,
		"user":         details.User,
		"env":          details.Env,
		"cmd":          details.Cmd,
		"working_dir":  details.WorkingDir,
		"labels":       details.Labels,
		"architecture": details.Architecture,
		"created":      details.Created,
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("output", "o", "", "output format: table or yaml")
}

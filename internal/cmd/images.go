package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List the images on the registry",
	Long: `List every repository on the registry together with its tags.

The registry is walked in catalog order; one extra request is made per
repository to fetch its tag list.`,
	Example: `  # List images on the configured registry
  aduana images

  # List images on another registry
  aduana images --registry http://localhost:5000

  # Print repository names only
  aduana images --quiet`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("get quiet flag: %w", err)
		}

		inspector, err := newInspector(cmd)
		if err != nil {
			return err
		}

		images, err := inspector.Images(cmd.Context())
		if err != nil {
			return fmt.Errorf("list images: %w", err)
		}

		if len(images) == 0 {
			if !quiet {
				fmt.Println("No images found")
			}
			return nil
		}

		if quiet {
			for _, image := range images {
				fmt.Println(image.Name())
			}
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "NAME\tTAGS"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, image := range images {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", image.Name(), strings.Join(image.Tags(), ", ")); err != nil {
				return fmt.Errorf("write image: %w", err)
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush output: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().BoolP("quiet", "q", false, "print repository names only")
}

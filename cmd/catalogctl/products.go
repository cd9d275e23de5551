package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/treeshop/catalog/internal/client"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := opts.client().ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			return writeItemList(cmd.OutOrStdout(), items)
		},
	}
}

func newGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := opts.client().GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), item)
			}
			return writeItemDetail(cmd.OutOrStdout(), item)
		},
	}
}

type productFlags struct {
	name        string
	description string
	imagePath   string
}

func (f *productFlags) bind(cmd *cobra.Command, imageUsage string) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.description, "description", "", "product description")
	cmd.Flags().StringVar(&f.imagePath, "image", "", imageUsage)
	_ = cmd.MarkFlagRequired("name")
}

// openImage returns nil when no image path was given.
func (f *productFlags) openImage() (*client.Image, func(), error) {
	if f.imagePath == "" {
		return nil, func() {}, nil
	}
	file, err := os.Open(f.imagePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	img := &client.Image{Filename: filepath.Base(f.imagePath), Body: file}
	return img, func() { _ = file.Close() }, nil
}

func newAddCmd(opts *globalOptions) *cobra.Command {
	flags := &productFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a product with an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			img, closeFn, err := flags.openImage()
			if err != nil {
				return err
			}
			defer closeFn()

			item, err := opts.client().CreateProduct(cmd.Context(), flags.name, flags.description, img)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), item)
			}
			return writeItemDetail(cmd.OutOrStdout(), item)
		},
	}
	flags.bind(cmd, "path of the product image")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	flags := &productFlags{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product, optionally replacing its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, closeFn, err := flags.openImage()
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := opts.client().UpdateProduct(cmd.Context(), args[0], flags.name, flags.description, img)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			if res.ImageURL != "" {
				return writePlain(cmd.OutOrStdout(), "%s\nimage_url: %s\n", res.Message, res.ImageURL)
			}
			return writePlain(cmd.OutOrStdout(), "%s\n", res.Message)
		},
	}
	flags.bind(cmd, "path of a replacement image")
	return cmd
}

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := opts.client().DeleteProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"message": msg})
			}
			return writePlain(cmd.OutOrStdout(), "%s\n", msg)
		},
	}
}

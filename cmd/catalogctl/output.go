package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/treeshop/catalog/internal/catalog"
)

func writeJSON(w io.Writer, payload any) error {
	return json.NewEncoder(w).Encode(payload)
}

func writePlain(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeItemList(w io.Writer, items []catalog.Item) error {
	for _, it := range items {
		if err := writePlain(w, "%s  %s\n", it.ID, it.Name); err != nil {
			return err
		}
	}
	return nil
}

func writeItemDetail(w io.Writer, it catalog.Item) error {
	return writePlain(w, "id: %s\nname: %s\ndescription: %s\nimage_url: %s\n",
		it.ID, it.Name, it.Description, it.ImageURL)
}

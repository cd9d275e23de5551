package client

import (
	"bytes"
	"context"

	"github.com/treeshop/catalog/internal/catalog"
)

// Editor keeps the product list plus a draft for the one item being created
// or edited. A failed call leaves the list and the draft untouched so the
// caller can retry.
type Editor struct {
	client *Client

	Items       []catalog.Item
	Name        string
	Description string
	// ImageName and ImageData hold the selected file; the bytes are sent
	// again on every Submit so a retry uploads the same image.
	ImageName string
	ImageData []byte
	// EditID is the id of the item being edited; empty means a new item.
	EditID string
}

func NewEditor(c *Client) *Editor {
	return &Editor{client: c}
}

// Refresh replaces the local list with the backend's.
func (e *Editor) Refresh(ctx context.Context) error {
	items, err := e.client.ListProducts(ctx)
	if err != nil {
		return err
	}
	e.Items = items
	return nil
}

// Edit pre-fills the draft from a row of the local list.
func (e *Editor) Edit(item catalog.Item) {
	e.EditID = item.ID
	e.Name = item.Name
	e.Description = item.Description
	e.ImageName, e.ImageData = "", nil
}

// Reset clears the draft.
func (e *Editor) Reset() {
	e.EditID = ""
	e.Name = ""
	e.Description = ""
	e.ImageName, e.ImageData = "", nil
}

// SetImage selects the file to upload with the next Submit.
func (e *Editor) SetImage(name string, data []byte) {
	e.ImageName, e.ImageData = name, data
}

func (e *Editor) image() *Image {
	if e.ImageData == nil {
		return nil
	}
	return &Image{Filename: e.ImageName, Body: bytes.NewReader(e.ImageData)}
}

// Submit creates or updates depending on EditID, then re-fetches the list to
// pick up the stored image URL.
func (e *Editor) Submit(ctx context.Context) error {
	var err error
	if e.EditID != "" {
		_, err = e.client.UpdateProduct(ctx, e.EditID, e.Name, e.Description, e.image())
	} else {
		_, err = e.client.CreateProduct(ctx, e.Name, e.Description, e.image())
	}
	if err != nil {
		return err
	}
	if err := e.Refresh(ctx); err != nil {
		return err
	}
	e.Reset()
	return nil
}

// Delete removes the item on the backend and, once confirmed, locally.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if _, err := e.client.DeleteProduct(ctx, id); err != nil {
		return err
	}
	kept := e.Items[:0]
	for _, it := range e.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	e.Items = kept
	if e.EditID == id {
		e.Reset()
	}
	return nil
}

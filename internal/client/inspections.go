package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
	"go.uber.org/zap"
)

const inspectionsPath = "/api/inspections"

var inspectionsKey = Key{inspectionsPath}

func inspectionKey(id string) Key {
	return Key{inspectionsPath, id}
}

// InspectionInput is the finalized record sent on create and update.
type InspectionInput struct {
	FactoryID            *uint  `json:"factoryId,omitempty"`
	FactoryName          string `json:"factoryName"`
	FactoryAddress       string `json:"factoryAddress"`
	MapLink              string `json:"mapLink"`
	Inspector            string `json:"inspector"`
	GregorianDate        string `json:"gregorianDate"`
	HebrewDate           string `json:"hebrewDate"`
	HebrewDateOverridden bool   `json:"hebrewDateOverridden"`
	ContactName          string `json:"contactName"`
	ContactPhone         string `json:"contactPhone"`
	ContactEmail         string `json:"contactEmail"`
	ContactRole          string `json:"contactRole"`
	Summary              string `json:"summary"`
	Notes                string `json:"notes"`
	Result               string `json:"result"`
}

func (c *Client) ListInspections(ctx context.Context) ([]entity.Inspection, error) {
	var data listData[entity.Inspection]
	if err := c.query(ctx, Key{inspectionsPath, "list"}, inspectionsPath, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// GetInspection returns nil without error when the inspection does not exist.
func (c *Client) GetInspection(ctx context.Context, id uint) (*entity.Inspection, error) {
	sid := strconv.FormatUint(uint64(id), 10)
	var inspection entity.Inspection
	err := c.query(ctx, inspectionKey(sid), inspectionsPath+"/"+sid, &inspection)
	var fe *FetchError
	if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (c *Client) CreateInspection(ctx context.Context, in InspectionInput) (*entity.Inspection, error) {
	var inspection entity.Inspection
	if err := c.mutate(ctx, http.MethodPost, inspectionsPath, in, &inspection, inspectionsKey); err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (c *Client) UpdateInspection(ctx context.Context, id uint, in InspectionInput) (*entity.Inspection, error) {
	sid := strconv.FormatUint(uint64(id), 10)
	var inspection entity.Inspection
	if err := c.mutate(ctx, http.MethodPut, inspectionsPath+"/"+sid, in, &inspection, inspectionsKey); err != nil {
		return nil, err
	}
	return &inspection, nil
}

func (c *Client) DeleteInspection(ctx context.Context, id uint) error {
	sid := strconv.FormatUint(uint64(id), 10)
	return c.mutate(ctx, http.MethodDelete, inspectionsPath+"/"+sid, nil, nil, inspectionsKey)
}

// DownloadReport fetches the rendered PDF of one inspection into dir and
// returns the written path. Reports are never cached.
func (c *Client) DownloadReport(ctx context.Context, id uint, dir string) (string, error) {
	path := fmt.Sprintf("%s/%d/report", inspectionsPath, id)
	resp, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	name := fmt.Sprintf("inspection-report-%d.pdf", id)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = filepath.Base(params["filename"])
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	target := filepath.Join(dir, name)
	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return "", &FetchError{Method: http.MethodGet, Path: path, StatusCode: resp.StatusCode, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", target, err)
	}

	c.logger.Info("report downloaded", zap.Uint("inspection_id", id), zap.String("path", target))
	return target, nil
}

package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bitfantasy/mashg/internal/inspection/entity"
)

const (
	factoriesPath     = "/api/factories"
	factorySearchPath = "/api/factories/search"
)

var (
	factoriesKey     = Key{factoriesPath}
	factorySearchKey = Key{factorySearchPath}
)

func factoryKey(id string) Key {
	return Key{factoriesPath, id}
}

// FactoryInput is the create-factory payload.
type FactoryInput struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	MapLink      string `json:"mapLink,omitempty"`
	ContactName  string `json:"contactName,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty"`
}

// FactoryPatch is a partial update; nil fields are not sent.
type FactoryPatch struct {
	Name         *string `json:"name,omitempty"`
	Address      *string `json:"address,omitempty"`
	MapLink      *string `json:"mapLink,omitempty"`
	ContactName  *string `json:"contactName,omitempty"`
	ContactPhone *string `json:"contactPhone,omitempty"`
	ContactEmail *string `json:"contactEmail,omitempty"`
}

func (c *Client) ListFactories(ctx context.Context) ([]entity.Factory, error) {
	var data listData[entity.Factory]
	if err := c.query(ctx, factoriesKey, factoriesPath, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

// GetFactory returns nil without error when the factory does not exist.
func (c *Client) GetFactory(ctx context.Context, id uint) (*entity.Factory, error) {
	return c.getFactory(ctx, strconv.FormatUint(uint64(id), 10))
}

func (c *Client) getFactory(ctx context.Context, id string) (*entity.Factory, error) {
	var factory entity.Factory
	err := c.query(ctx, factoryKey(id), factoriesPath+"/"+url.PathEscape(id), &factory)
	var fe *FetchError
	if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &factory, nil
}

// SearchFactories matches name or address. A blank query returns nil
// without touching the network.
func (c *Client) SearchFactories(ctx context.Context, q string) ([]entity.Factory, error) {
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}
	var data listData[entity.Factory]
	path := factorySearchPath + "?q=" + url.QueryEscape(q)
	if err := c.query(ctx, Key{factorySearchPath, q}, path, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

func (c *Client) CreateFactory(ctx context.Context, in FactoryInput) (*entity.Factory, error) {
	var factory entity.Factory
	if err := c.mutate(ctx, http.MethodPost, factoriesPath, in, &factory,
		factoriesKey, factorySearchKey); err != nil {
		return nil, err
	}
	return &factory, nil
}

func (c *Client) UpdateFactory(ctx context.Context, id uint, patch FactoryPatch) (*entity.Factory, error) {
	sid := strconv.FormatUint(uint64(id), 10)
	var factory entity.Factory
	if err := c.mutate(ctx, http.MethodPut, factoriesPath+"/"+sid, patch, &factory,
		factoriesKey, factorySearchKey, factoryKey(sid)); err != nil {
		return nil, err
	}
	return &factory, nil
}

func (c *Client) DeleteFactory(ctx context.Context, id uint) error {
	sid := strconv.FormatUint(uint64(id), 10)
	return c.mutate(ctx, http.MethodDelete, factoriesPath+"/"+sid, nil, nil,
		factoriesKey, factorySearchKey, factoryKey(sid))
}

package commands

import (
	"encoding/json"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// client talks to the public api of a node.
type client struct {
	url  string
	rest *resty.Client
}

func newNodeClient(url string, timeout time.Duration) *client {
	rest := resty.New().
		SetBaseURL(url).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &client{
		url:  url,
		rest: rest,
	}
}

func (c *client) get(path string, v any) error {
	resp, err := c.rest.R().Get(path)
	if err != nil {
		return errors.Wrapf(err, "get %s%s", c.url, path)
	}

	return decode(resp, v)
}

func (c *client) post(path string, body any, v any) error {
	resp, err := c.rest.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return errors.Wrapf(err, "post %s%s", c.url, path)
	}

	return decode(resp, v)
}

// decode turns an error response from the node into an error.
func decode(resp *resty.Response, v any) error {
	if resp.IsError() {
		var er errs.Response
		if err := json.Unmarshal(resp.Body(), &er); err != nil || er.Error == "" {
			return errors.Errorf("node responded %s", resp.Status())
		}

		if len(er.Fields) > 0 {
			return errors.Errorf("node responded %s: %s: %v", resp.Status(), er.Error, er.Fields)
		}
		return errors.Errorf("node responded %s: %s", resp.Status(), er.Error)
	}

	if v == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Body(), v); err != nil {
		return errors.Wrap(err, "decoding response")
	}

	return nil
}

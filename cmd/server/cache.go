package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/hertz/pkg/app/client"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-encounter/internal/errors"
)

var cacheServerAddr string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Administer the content cache of a running server",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [path]",
	Short: "Drop one cached document, or every one when no path is given",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheServerAddr, "addr", "", "server address (defaults to localhost on HTTP_PORT)")
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	addr := cacheServerAddr
	if addr == "" {
		addr = fmt.Sprintf("http://localhost:%d", appConfig.HTTPPort)
	}

	body, err := cacheClearBody(args)
	if err != nil {
		return err
	}

	c, err := client.NewClient()
	if err != nil {
		return errors.Wrap(err, "failed to create http client")
	}

	req := protocol.AcquireRequest()
	resp := protocol.AcquireResponse()
	defer protocol.ReleaseRequest(req)
	defer protocol.ReleaseResponse(resp)

	req.SetMethod(consts.MethodPost)
	req.SetRequestURI(strings.TrimRight(addr, "/") + "/api/admin/cache/clear")
	req.Header.SetContentTypeBytes([]byte("application/json"))
	req.SetBody(body)

	if err := c.Do(cmd.Context(), req, resp); err != nil {
		return errors.Wrapf(err, "failed to reach %s", addr)
	}

	result := gjson.ParseBytes(resp.Body())
	if resp.StatusCode() != consts.StatusOK {
		return errors.Internalf("cache clear failed with HTTP %d: %s",
			resp.StatusCode(), result.Get("error.message").String())
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", result.Get("cleared").String())
	return err
}

func cacheClearBody(args []string) ([]byte, error) {
	payload := map[string]string{}
	if len(args) == 1 {
		payload["path"] = args[0]
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode cache clear request")
	}
	return body, nil
}

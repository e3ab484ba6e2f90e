package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// rpcURL overrides the server URL derived from the configuration
var rpcURL string

// rpcCmd represents the rpc command group
var rpcCmd = &cobra.Command{
	Use:   "rpc <method> [params-json]",
	Short: "Call a JSON-RPC method on a running server",
	Long: `Send a JSON-RPC request to a running oracled server and print the result.
The optional second argument is a JSON object passed as the method parameters.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params map[string]interface{}
		if len(args) > 1 {
			if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
				return errors.Wrap(err, "invalid params JSON")
			}
		}
		return executeMethod(cmd, args[0], params)
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "ping", nil)
	},
}

var serverInfoCmd = &cobra.Command{
	Use:   "server_info",
	Short: "Get server information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return executeMethod(cmd, "server_info", nil)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc-url", "", "JSON-RPC endpoint of the server (default from configuration)")

	rootCmd.AddCommand(rpcCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(serverInfoCmd)
}

// RPCError is an error result returned by the server
type RPCError struct {
	Code         int    `json:"error_code"`
	Name         string `json:"error"`
	Message      string `json:"error_message"`
	EngineResult string `json:"engine_result"`
}

func (e *RPCError) Error() string {
	msg := fmt.Sprintf("RPC error [%d] %s: %s", e.Code, e.Name, e.Message)
	if e.EngineResult != "" {
		msg += " (" + e.EngineResult + ")"
	}
	return msg
}

// Client calls JSON-RPC methods over HTTP
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient creates a client for the server at url
func NewClient(url string) *Client {
	return &Client{
		URL:  url,
		HTTP: &http.Client{Timeout: 30 * time.Second},
	}
}

// Call sends {"method": method, "params": [params]} and returns the result
// object. Error results are returned as *RPCError.
func (c *Client) Call(ctx context.Context, method string, params interface{}) (map[string]interface{}, error) {
	req := map[string]interface{}{"method": method}
	if params != nil {
		req["params"] = []interface{}{params}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal parameters")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("server returned %s", resp.Status)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	var result map[string]interface{}
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		return nil, errors.Wrap(err, "decode result")
	}
	if result["status"] == "error" {
		var rpcErr RPCError
		if err := json.Unmarshal(envelope.Result, &rpcErr); err != nil {
			return nil, errors.Wrap(err, "decode error result")
		}
		return nil, &rpcErr
	}
	return result, nil
}

func newClient() *Client {
	url := rpcURL
	if url == "" {
		url = cfg.Server.URL()
	}
	return NewClient(url)
}

// executeMethod calls method on the server and pretty prints the result
func executeMethod(cmd *cobra.Command, method string, params interface{}) error {
	result, err := newClient().Call(cmd.Context(), method, params)
	if err != nil {
		return err
	}
	return printResult(cmd, result)
}

func printResult(cmd *cobra.Command, result interface{}) error {
	prettyJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%+v\n", result)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
	return nil
}

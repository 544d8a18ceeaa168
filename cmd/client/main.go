// Command client is a small command-line client for the venue's HTTP API.
//
// Examples:
//
//	client -action symbols
//	client -action state -symbol AAPL
//	client -action depth -symbol AAPL -levels 5
//	client -action place -symbol AAPL -side buy -price 15000 -qty 10,20,50
//	client -action cancel -symbol AAPL -id <order-uuid>
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "Base URL of the exchange server")
	action := flag.String("action", "state", "Action: ['symbols', 'state', 'depth', 'place', 'cancel']")

	symbol := flag.String("symbol", "AAPL", "Symbol to operate on")
	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	price := flag.Int64("price", 10000, "Limit price in ticks")
	qtyStr := flag.String("qty", "10", "Quantity or comma-separated list (e.g. 10,20,50)")
	levels := flag.Int("levels", 10, "Depth levels to request")
	orderID := flag.String("id", "", "Order id to cancel")

	flag.Parse()

	base := strings.TrimRight(*server, "/")

	switch strings.ToLower(*action) {
	case "symbols":
		get(base + "/symbols")

	case "state":
		get(fmt.Sprintf("%s/symbols/%s/book", base, *symbol))

	case "depth":
		get(fmt.Sprintf("%s/symbols/%s/depth?levels=%d", base, *symbol, *levels))

	case "place":
		side := "bid"
		if strings.ToLower(*sideStr) == "sell" {
			side = "ask"
		}
		for _, q := range parseQuantities(*qtyStr) {
			placeOrder(base, *symbol, side, *price, q)
		}

	case "cancel":
		if *orderID == "" {
			log.Fatal("Error: -id is required for cancellation")
		}
		cancelOrder(base, *symbol, *orderID)

	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// parseQuantities splits a comma-separated string into a slice of int64.
func parseQuantities(input string) []int64 {
	parts := strings.Split(input, ",")
	var result []int64
	for _, p := range parts {
		q, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || q <= 0 {
			log.Fatalf("Invalid quantity %q", p)
		}
		result = append(result, q)
	}
	return result
}

func placeOrder(base, symbol, side string, price, qty int64) {
	body, _ := json.Marshal(map[string]any{
		"side":     side,
		"price":    price,
		"quantity": qty,
	})
	resp, err := http.Post(
		fmt.Sprintf("%s/symbols/%s/orders", base, symbol),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		log.Fatalf("Failed to place order: %v", err)
	}
	defer resp.Body.Close()
	fmt.Printf("-> %s %s %d@%d: ", strings.ToUpper(side), symbol, qty, price)
	dump(resp)
}

func cancelOrder(base, symbol, id string) {
	req, err := http.NewRequest(
		http.MethodDelete,
		fmt.Sprintf("%s/symbols/%s/orders/%s", base, symbol, id),
		nil,
	)
	if err != nil {
		log.Fatalf("Failed to build cancel request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Failed to send cancel request: %v", err)
	}
	defer resp.Body.Close()
	fmt.Printf("-> Cancel %s: ", id)
	dump(resp)
}

func get(url string) {
	resp, err := http.Get(url)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	dump(resp)
}

// dump pretty-prints a JSON response body to stdout.
func dump(resp *http.Response) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed reading response: %v", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		os.Stdout.Write(raw)
		fmt.Println()
		return
	}
	fmt.Printf("[%d]\n%s\n", resp.StatusCode, pretty.String())
}

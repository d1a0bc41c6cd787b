// Package alphavantage fetches end-of-day quotes from the Alpha Vantage
// GLOBAL_QUOTE API. It is the price-fetch collaborator of the tracker: any
// trouble with a symbol (missing data, rate-limit envelope, unexpected
// response shape, transport error) degrades that symbol to "no quote", it
// never fails the caller's run.
package alphavantage

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	microcap "github.com/deuxfoistrois/microcap-adapted"
)

const apiKeyEnv = "ALPHAVANTAGE_API_KEY"

var apiKeyFlag = flag.String("alphavantage-api-key", "", "Alpha Vantage API key to use for fetching quotes.\n If missing it will read the environment variable \""+apiKeyEnv+"\". You can get one at https://www.alphavantage.co/")

// APIKey resolves the API key from the flag, falling back to the environment.
func APIKey() string {
	if *apiKeyFlag == "" {
		*apiKeyFlag = os.Getenv(apiKeyEnv)
	}
	return *apiKeyFlag
}

// DefaultAliases maps symbols to the alternative ticker tried once when the
// primary symbol returns no quote.
var DefaultAliases = map[string]string{
	"MYOMO": "MYO",
}

// Client queries the Alpha Vantage API. Responses are cached on disk for the
// day, the API has a tight daily request budget.
type Client struct {
	key     string
	base    string
	http    *http.Client
	aliases map[string]string
}

// New returns a client using the given API key and the default alias table.
func New(key string) *Client {
	return &Client{
		key:     key,
		base:    "https://www.alphavantage.co/query",
		http:    daily(),
		aliases: DefaultAliases,
	}
}

// GetQuote fetches the current quote for a symbol. ok is false when no
// usable quote could be obtained; the reason is logged, never returned.
func (c *Client) GetQuote(symbol string) (microcap.Quote, bool) {
	q, ok := c.fetch(symbol)
	if ok {
		return q, true
	}
	alias, hasAlias := c.aliases[symbol]
	if !hasAlias {
		return microcap.Quote{}, false
	}
	q, ok = c.fetch(alias)
	if ok {
		log.Printf("found %s as %s: $%s", symbol, alias, q.Price.Fixed4())
	}
	return q, ok
}

// GetPrice is the narrow price-only view of GetQuote.
func (c *Client) GetPrice(symbol string) (microcap.Money, bool) {
	q, ok := c.GetQuote(symbol)
	return q.Price, ok
}

var _ microcap.QuoteSource = (*Client)(nil)

func (c *Client) fetch(symbol string) (microcap.Quote, bool) {
	v := url.Values{}
	v.Set("function", "GLOBAL_QUOTE")
	v.Set("symbol", symbol)
	v.Set("apikey", c.key)
	addr := c.base + "?" + v.Encode()

	var jobj any
	if err := jwget(c.http, addr, &jobj); err != nil {
		log.Printf("error fetching %s: %v", symbol, err)
		return microcap.Quote{}, false
	}

	price, err := field(jobj, `$["Global Quote"]["05. price"]`)
	if err != nil {
		// No price. Tell apart the known error envelopes from surprises.
		if msg, err := field(jobj, `$["Error Message"]`); err == nil {
			log.Printf("API error for %s: %s", symbol, msg)
		} else if note, err := field(jobj, `$["Note"]`); err == nil {
			log.Printf("API limit for %s: %s", symbol, note)
		} else {
			log.Printf("unexpected response for %s: %v", symbol, jobj)
		}
		return microcap.Quote{}, false
	}
	priceDec, err := decimal.NewFromString(price)
	if err != nil {
		log.Printf("unreadable price for %s: %q", symbol, price)
		return microcap.Quote{}, false
	}

	q := microcap.Quote{Price: microcap.M(priceDec)}

	// The rest of the quote is best-effort, only the price is required.
	if prev, err := field(jobj, `$["Global Quote"]["08. previous close"]`); err == nil {
		if prevDec, err := decimal.NewFromString(prev); err == nil {
			q.PrevClose = microcap.M(prevDec)
		}
	}
	if vol, err := field(jobj, `$["Global Quote"]["06. volume"]`); err == nil {
		if n, err := strconv.ParseInt(vol, 10, 64); err == nil {
			q.Volume = n
		}
	}
	return q, true
}

// field extracts a string value at the given jsonpath. The API returns every
// number as a string; tolerate actual numbers anyway.
func field(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", err
	}
	switch v := jval.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("value at %q is neither string nor number", path)
	}
}

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// get from disk
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", microcap.Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// returns a client with a cache all with daily expire
func daily() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(client *http.Client, addr string, data interface{}) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return json.Unmarshal(buf.Bytes(), data)
}

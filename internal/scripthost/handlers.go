package scripthost

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danmuck/benc"
	"github.com/danmuck/benc/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps decode/encode request bodies.
const maxBodyBytes = 4 << 20

// handleDecode decodes the request body and answers the tree as JSON.
// Prefix semantics are kept: trailing bytes are reported, not
// rejected. Grammar failures map to 400 with the failure kind and
// offset.
func (h *Host) handleDecode(c *gin.Context) {
	start := time.Now()
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	v, rest, err := benc.DecodeWithLimits(body, h.limits)
	if err != nil {
		kind := failureKind(err)
		observability.RecordDecode(h.ID, kind, len(body), time.Since(start))
		resp := gin.H{"error": err.Error(), "kind": kind}
		var se *benc.SyntaxError
		if errors.As(err, &se) {
			resp["offset"] = se.Offset
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	observability.RecordDecode(h.ID, "ok", len(body), time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"value":     jsonShape(v),
		"remainder": len(rest),
	})
}

// handleEncode accepts {"value": <shape>} with the JSON shape decode
// produces and answers raw bencode.
func (h *Host) handleEncode(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var req struct {
		Value json.RawMessage `json:"value"`
	}
	if err := dec.Decode(&req); err != nil || len(req.Value) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object with a value field"})
		return
	}

	v, err := valueFromJSON(req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := benc.Encode(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/x-bencode", out)
}

func (h *Host) handleListScripts(c *gin.Context) {
	if h.ScriptsDir == "" {
		c.JSON(http.StatusOK, gin.H{"scripts": []string{}})
		return
	}
	entries, err := os.ReadDir(h.ScriptsDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "script directory unavailable"})
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	c.JSON(http.StatusOK, gin.H{"scripts": names})
}

// handleScript serves one file from the script directory, gzipped when
// the client accepts it. Only bare file names resolve; anything that
// could climb out of the directory is rejected before touching the
// filesystem.
func (h *Host) handleScript(c *gin.Context) {
	name := c.Param("name")
	if h.ScriptsDir == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no script directory configured"})
		return
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid script name"})
		return
	}

	data, err := os.ReadFile(filepath.Join(h.ScriptsDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "script not found"})
		return
	}
	if err != nil {
		log.Error().Str("script", name).Err(err).Msg("script read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "script read failed"})
		return
	}

	if strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
		c.Header("Content-Encoding", "gzip")
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Status(http.StatusOK)
		zw := gzip.NewWriter(c.Writer)
		_, _ = zw.Write(data)
		_ = zw.Close()
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}

func (h *Host) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "body read failed"})
		return nil, false
	}
	if len(body) > maxBodyBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "body too large"})
		return nil, false
	}
	return body, true
}

// failureKind names a decode failure for responses and metric labels.
func failureKind(err error) string {
	switch {
	case errors.Is(err, benc.ErrTruncated):
		return "truncated"
	case errors.Is(err, benc.ErrMalformedLength):
		return "malformed-length"
	case errors.Is(err, benc.ErrMalformedInteger):
		return "malformed-integer"
	case errors.Is(err, benc.ErrInvalidKey):
		return "invalid-key"
	case errors.Is(err, benc.ErrUnknownPrefix):
		return "unknown-prefix"
	case errors.Is(err, benc.ErrDepthExceeded):
		return "depth-exceeded"
	case errors.Is(err, benc.ErrTrailingData):
		return "trailing-data"
	default:
		return "error"
	}
}

// jsonShape renders a tree for JSON responses. Byte strings become
// plain strings when they are valid UTF-8 and base64 otherwise, so
// binary payloads survive the trip through JSON.
func jsonShape(v benc.Value) any {
	switch v.Kind() {
	case benc.KindInteger:
		n, _ := v.AsInt()
		return n
	case benc.KindString:
		b, _ := v.AsBytes()
		if utf8.Valid(b) {
			return string(b)
		}
		return base64.StdEncoding.EncodeToString(b)
	case benc.KindList:
		elems, _ := v.AsList()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = jsonShape(e)
		}
		return out
	case benc.KindDict:
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			e, _ := v.Get(k)
			out[k] = jsonShape(e)
		}
		return out
	default:
		return nil
	}
}

// valueFromJSON builds a tree from the JSON shape: whole numbers
// become integers, strings byte strings, arrays lists, objects
// dictionaries.
func valueFromJSON(raw json.RawMessage) (benc.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var node any
	if err := dec.Decode(&node); err != nil {
		return benc.Value{}, err
	}
	return valueFromNode(node)
}

func valueFromNode(node any) (benc.Value, error) {
	switch n := node.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return benc.Value{}, errors.New("bencode integers must be whole 64-bit numbers")
		}
		return benc.Int(i), nil
	case string:
		return benc.Str(n), nil
	case []any:
		elems := make([]benc.Value, 0, len(n))
		for _, e := range n {
			ev, err := valueFromNode(e)
			if err != nil {
				return benc.Value{}, err
			}
			elems = append(elems, ev)
		}
		return benc.List(elems...), nil
	case map[string]any:
		entries := make(map[string]benc.Value, len(n))
		for k, e := range n {
			ev, err := valueFromNode(e)
			if err != nil {
				return benc.Value{}, err
			}
			entries[k] = ev
		}
		return benc.Dict(entries), nil
	default:
		return benc.Value{}, errors.New("bencode has no encoding for this JSON value")
	}
}

package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ecowas-hr/application-processor/internal/common"
)

// documentSchema guards against loading a structurally broken cache file and
// silently carrying garbage records into a run.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "root", "entries"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "root": {"type": "string"},
    "entries": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["fingerprint", "record"],
        "properties": {
          "fingerprint": {
            "type": "object",
            "required": ["size", "mtime_unix"],
            "properties": {
              "size": {"type": "integer", "minimum": 0},
              "mtime_unix": {"type": "integer"}
            }
          },
          "record": {
            "type": "object",
            "required": ["applicant", "status", "fields"]
          },
          "cached_at": {"type": "string"}
        }
      }
    }
  }
}`

var compiledSchema = func() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("cache.schema.json", strings.NewReader(documentSchema)); err != nil {
		panic(err)
	}
	return c.MustCompile("cache.schema.json")
}()

// decodeDocument validates raw bytes against the cache schema before
// unmarshaling them into the typed document.
func decodeDocument(data []byte) (document, error) {
	var untyped any
	if err := json.Unmarshal(data, &untyped); err != nil {
		return document{}, fmt.Errorf("%w: parse json: %v", common.ErrCacheCorrupt, err)
	}
	if err := compiledSchema.Validate(untyped); err != nil {
		return document{}, fmt.Errorf("%w: schema: %v", common.ErrCacheCorrupt, err)
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return document{}, fmt.Errorf("%w: decode: %v", common.ErrCacheCorrupt, err)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]Entry{}
	}
	return doc, nil
}

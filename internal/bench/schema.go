// internal/bench/schema.go
package bench

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// recordSchema is the wire shape of one benchmark result file. The sync job
// validates mirrored files against it; render-time parsing stays tolerant
// and simply drops what it cannot use.
const recordSchema = `{
  "type": "object",
  "required": ["metadata", "regions"],
  "properties": {
    "metadata": {
      "type": "object",
      "required": ["benchmark_name", "timestamp", "total_execution_time"],
      "properties": {
        "benchmark_name": {"type": "string", "minLength": 1},
        "timestamp": {"type": "string", "minLength": 1},
        "total_execution_time": {"type": "number"},
        "hardware": {
          "type": "object",
          "properties": {
            "architecture": {"type": "string"},
            "cpu_model": {"type": "string"},
            "cpu_max_mhz": {"type": "number"}
          }
        },
        "git_commit": {
          "type": "object",
          "required": ["hash"],
          "properties": {
            "hash": {"type": "string"},
            "message": {"type": "string"}
          }
        }
      }
    },
    "regions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["region", "time"],
        "properties": {
          "region": {"type": "string", "minLength": 1},
          "time": {"type": "number"}
        }
      }
    }
  }
}`

var recordSchemaLoader = gojsonschema.NewStringLoader(recordSchema)

// ValidateRecord checks a raw result file against the record schema and
// returns a single error summarizing every violation.
func ValidateRecord(data []byte) error {
	result, err := gojsonschema.Validate(recordSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate record: %w", err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("invalid record: %s", strings.Join(issues, "; "))
}

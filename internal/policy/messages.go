package policy

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fr.yaml
var frCatalog []byte

type catalog struct {
	Messages map[string]string `yaml:"messages"`
}

var messages map[string]string

func init() {
	var c catalog
	if err := yaml.Unmarshal(frCatalog, &c); err != nil {
		panic(fmt.Sprintf("policy: parse embedded message catalog: %v", err))
	}
	messages = c.Messages
}

// Message returns the French user-facing message for a decision key. Unknown
// keys fall back to the key itself so a missing catalog entry stays visible.
func Message(key string) string {
	if m, ok := messages[key]; ok {
		return m
	}
	return key
}

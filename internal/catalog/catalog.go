// Package catalog holds the guide, schedule, reward and marketplace content.
// A YAML file can replace the embedded defaults.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var embedded []byte

// Load reads the catalog at path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(embedded)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return Parse(data)
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Catalog) validate() error {
	var errs []error

	if len(c.Guide) == 0 {
		errs = append(errs, errors.New("guide has no categories"))
	}

	if len(c.Schedule.Days) == 0 {
		errs = append(errs, errors.New("schedule has no days"))
	}

	if c.Rewards.OpeningBalance < 0 {
		errs = append(errs, errors.New("rewards opening balance is negative"))
	}

	seen := make(map[string]bool)
	for _, card := range c.Rewards.Cards {
		key := strings.ToLower(card.Title)
		switch {
		case card.Title == "":
			errs = append(errs, errors.New("reward card without title"))
		case card.Coins <= 0:
			errs = append(errs, fmt.Errorf("reward card %q: coins must be positive", card.Title))
		case seen[key]:
			errs = append(errs, fmt.Errorf("reward card %q: duplicate title", card.Title))
		}
		seen[key] = true
	}

	return errors.Join(errs...)
}

// Card finds a reward card by title (case-insensitive) or by 1-based position.
func (c *Catalog) Card(ref string) (RewardCard, bool) {
	ref = strings.TrimSpace(ref)

	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(c.Rewards.Cards) {
			return c.Rewards.Cards[n-1], true
		}
		return RewardCard{}, false
	}

	for _, card := range c.Rewards.Cards {
		if strings.EqualFold(card.Title, ref) {
			return card, true
		}
	}

	// "amazon" selects "Amazon Voucher"
	lower := strings.ToLower(ref)
	for _, card := range c.Rewards.Cards {
		if lower != "" && strings.HasPrefix(strings.ToLower(card.Title), lower) {
			return card, true
		}
	}

	return RewardCard{}, false
}

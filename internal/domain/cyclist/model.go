package cyclist

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cyclist is an allocatable rider shared read-only across every league.
type Cyclist struct {
	ID        string
	Name      string
	Team      string
	MinPrice  decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Cyclist) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("cyclist id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("cyclist name is required")
	}
	if !c.MinPrice.IsPositive() {
		return fmt.Errorf("cyclist %s minimum price must be > 0", c.Name)
	}

	return nil
}

// ImportResult counts catalog rows touched by an upsert.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

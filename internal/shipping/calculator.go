package shipping

import (
	"strings"

	"github.com/Theloho/live-commerce-sub002/internal/config"
)

// Quote 运费计算结果
type Quote struct {
	TotalShipping int64  `json:"total_shipping"`
	BaseShipping  int64  `json:"base_shipping"`
	Surcharge     int64  `json:"surcharge"`
	Region        string `json:"region,omitempty"`
}

// Calculator 运费计算接口。订单核心只调用，不拥有费率规则。
type Calculator interface {
	ComputeShipping(baseFee int64, postalCode string) Quote
}

// SurchargeRule 按邮编前缀的地区附加费规则
type SurchargeRule struct {
	Region   string
	Prefixes []string
	Amount   int64
}

// RegionCalculator 默认实现：基础运费 + 首个命中前缀的地区附加费
type RegionCalculator struct {
	rules []SurchargeRule
}

// NewRegionCalculator 创建地区运费计算器
func NewRegionCalculator(rules []SurchargeRule) *RegionCalculator {
	return &RegionCalculator{rules: rules}
}

// NewRegionCalculatorFromConfig 由配置构建地区运费计算器
func NewRegionCalculatorFromConfig(cfg *config.ShippingConfig) *RegionCalculator {
	if cfg == nil {
		return NewRegionCalculator(nil)
	}
	rules := make([]SurchargeRule, 0, len(cfg.Surcharges))
	for _, item := range cfg.Surcharges {
		rules = append(rules, SurchargeRule{
			Region:   item.Region,
			Prefixes: item.Prefixes,
			Amount:   item.Amount,
		})
	}
	return NewRegionCalculator(rules)
}

// ComputeShipping 计算运费
func (c *RegionCalculator) ComputeShipping(baseFee int64, postalCode string) Quote {
	quote := Quote{
		TotalShipping: baseFee,
		BaseShipping:  baseFee,
	}
	code := strings.TrimSpace(postalCode)
	if code == "" {
		return quote
	}
	for _, rule := range c.rules {
		for _, prefix := range rule.Prefixes {
			if prefix == "" || !strings.HasPrefix(code, prefix) {
				continue
			}
			quote.Surcharge = rule.Amount
			quote.Region = rule.Region
			quote.TotalShipping = baseFee + rule.Amount
			return quote
		}
	}
	return quote
}

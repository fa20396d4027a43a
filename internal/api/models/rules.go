package models

import "github.com/jroosing/dnsmirage/internal/rules"

// RuleListResponse lists rules in priority order.
type RuleListResponse struct {
	Rules []rules.Rule `json:"rules"`
	Count int          `json:"count"`
}

// NewRuleListResponse wraps rs, reporting an empty list as [].
func NewRuleListResponse(rs []rules.Rule) RuleListResponse {
	if rs == nil {
		rs = []rules.Rule{}
	}
	return RuleListResponse{Rules: rs, Count: len(rs)}
}

// ReorderRequest is the body of PUT /rules/order.
type ReorderRequest struct {
	RuleIDs []string `json:"rule_ids" binding:"required"`
}

package policy

// GetThreshold returns rules.<ruleID>.params.<key>, or defaultValue when the
// policy, the rule entry or the key is absent.
func GetThreshold(ruleID, key string, defaultValue float64, cfg *PolicyConfig) float64 {
	if cfg == nil {
		return defaultValue
	}
	return lookup(cfg.Rules[ruleID].Params, key, defaultValue)
}

// GetIntThreshold is GetThreshold for count-like params. Fractions are
// truncated.
func GetIntThreshold(ruleID, key string, defaultValue int, cfg *PolicyConfig) int {
	return int(GetThreshold(ruleID, key, float64(defaultValue), cfg))
}

// GetToolParam returns tools.<tool>.params.<key>, or defaultValue.
func GetToolParam(tool, key string, defaultValue float64, cfg *PolicyConfig) float64 {
	if cfg == nil {
		return defaultValue
	}
	return lookup(cfg.Tools[tool].Params, key, defaultValue)
}

func lookup(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}

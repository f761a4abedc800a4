package sanitizer

// NormalizeStringSlice applies normalizer to each item, keeping order and
// repeated items. Items that normalize to "" are dropped.
func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if normalized := normalizer(item); normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

func NormalizeAgenda(items []string) []string {
	return NormalizeStringSlice(items, TrimAndNormalize)
}

func NormalizeTags(tags []string) []string {
	return NormalizeStringSlice(tags, TrimAndNormalize)
}

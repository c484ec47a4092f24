package labels

import (
	"fmt"
	"strconv"
)

// sourcesForKojiBuildID arrives as either a number or a string depending
// on which stage recorded it, and is forced to one textual form.
const sourcesForKojiBuildID = "sources_for_koji_build_id"

// Assemble merges workflow labels then build-result labels, later
// sources overwriting earlier keys, stringifying every value.
func Assemble(workflowLabels, buildResultLabels map[string]any) map[string]string {
	labels := map[string]string{}
	merge(labels, workflowLabels)
	merge(labels, buildResultLabels)

	if value, ok := labels[sourcesForKojiBuildID]; ok {
		labels[sourcesForKojiBuildID] = stringify(value)
	}

	return labels
}

func merge(labels map[string]string, updates map[string]any) {
	for key, value := range updates {
		labels[key] = stringify(value)
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		// json numbers, render integers without exponent notation
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

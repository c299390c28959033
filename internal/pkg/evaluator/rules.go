package evaluator

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Verbs that describe observable, assessable behaviour, grouped by cognitive level.
var measurableVerbs = map[string]string{
	"define": "remember", "list": "remember", "recall": "remember", "identify": "remember", "name": "remember",
	"describe": "understand", "explain": "understand", "summarise": "understand", "summarize": "understand", "classify": "understand",
	"apply": "apply", "use": "apply", "implement": "apply", "solve": "apply", "demonstrate": "apply", "calculate": "apply",
	"analyse": "analyse", "analyze": "analyse", "compare": "analyse", "contrast": "analyse", "differentiate": "analyse", "investigate": "analyse",
	"evaluate": "evaluate", "assess": "evaluate", "justify": "evaluate", "critique": "evaluate", "judge": "evaluate",
	"design": "create", "create": "create", "construct": "create", "develop": "create", "formulate": "create", "synthesise": "create", "synthesize": "create",
}

// Verbs that name an internal state and cannot be assessed directly.
var vagueVerbs = map[string]bool{
	"understand": true, "know": true, "learn": true, "appreciate": true,
	"comprehend": true, "grasp": true, "realise": true, "realize": true,
}

// Rules is an offline evaluator giving feedback from simple wording checks
type Rules struct{}

// Name identifies the evaluator in logs and metrics
func (Rules) Name() string { return "rules" }

// Evaluate inspects the outcome's leading verb and its overlap with the description
func (Rules) Evaluate(_ context.Context, text, description string) (string, error) {
	words := tokenize(text)
	if len(words) == 0 {
		return "Please enter a learning outcome to evaluate.", nil
	}

	var feedback []string
	verb := words[0]
	if level, ok := measurableVerbs[verb]; ok {
		feedback = append(feedback, fmt.Sprintf("Good: %q is a measurable verb at the %s level.", verb, level))
	} else if vagueVerbs[verb] {
		feedback = append(feedback, fmt.Sprintf("%q is hard to assess; start with a measurable verb such as \"explain\", \"apply\" or \"evaluate\".", verb))
	} else {
		feedback = append(feedback, "Start the outcome with an action verb describing what students will be able to do.")
	}

	if len(words) < 4 {
		feedback = append(feedback, "Add the content or context the verb applies to.")
	}

	if strings.TrimSpace(description) == "" {
		feedback = append(feedback, "Add a course description to get feedback on relevance.")
	} else if overlap(words[1:], tokenize(description)) == 0 {
		feedback = append(feedback, "The outcome shares no key terms with the course description; check it is relevant.")
	}

	return strings.Join(feedback, " "), nil
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func overlap(words, reference []string) int {
	seen := make(map[string]bool, len(reference))
	for _, w := range reference {
		if len(w) > 3 {
			seen[w] = true
		}
	}
	n := 0
	for _, w := range words {
		if seen[w] {
			n++
		}
	}
	return n
}

package generator

import "fmt"

// MinCases is the number of cases the prompt asks the model for.
const MinCases = 5

const promptTemplate = "Generate at least %d diverse test cases for the following %s function.\n" +
	"Return ONLY valid JSON in this structure:\n" +
	"[\n" +
	"  {\n" +
	"    \"input\": \"function input here\",\n" +
	"    \"expectedOutput\": \"expected output here\",\n" +
	"    \"description\": \"short description of what this test is checking\"\n" +
	"  }\n" +
	"]\n" +
	"Each object must have exactly the fields input, expectedOutput and description.\n" +
	"\n" +
	"Code:\n" +
	"```%s\n" +
	"%s\n" +
	"```"

// BuildPrompt renders the fixed prompt for code. The output depends only on its arguments.
func BuildPrompt(language, code string) string {
	return fmt.Sprintf(promptTemplate, MinCases, language, language, code)
}

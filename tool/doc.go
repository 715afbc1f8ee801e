/*
Package tool declares the functions a model may call during a request.

A Definition carries a name, a description and a JSON schema describing the
arguments. Providers translate it into the backend's native tool format; for
OpenAI-compatible backends that is

	{"type":"function","function":{"name":...,"description":...,"parameters":{...}}}

# Building definitions

From a Go function, with the signature driving the parameter schema:

	def := tool.Must(getWeather,
	    tool.Description("Current weather for a city"),
	    tool.Parameters("city", "unit"),
	)

From a struct, with json and jsonschema tags driving the schema:

	type weatherArgs struct {
	    City string `json:"city" jsonschema:"description=City name"`
	}
	def, err := tool.Declare[weatherArgs]("get_weather", tool.Description("Current weather"))

Arguments the model sends back are delivered as canonical.FunctionCallPart
values; nothing in this package invokes the function.
*/
package tool

package dispatch

const intentTemplate = `You are a tool-using assistant.

You can use these tools:
%TOOLS%
Rules:
- If a tool is needed, output one JSON object and nothing else.
- Do not explain.
- The object must have exactly this shape:

{"tool": "tool_name", "arguments": { ... }}

If no tool is needed, answer the user directly in natural language.
`

const foldPrompt = "You are an assistant. Answer the user based on the tool result."

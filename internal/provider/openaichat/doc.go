// Package openaichat implements the chat-completions protocol family:
// resellers that tunnel image generation through an OpenAI-style
// /chat/completions endpoint. The request is a single user message whose
// content mixes text and data-URL image parts; the response is a chat
// message containing the generated image's URL in markdown or plain text.
package openaichat

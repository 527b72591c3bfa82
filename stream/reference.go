package stream

// ReferenceText is the corpus chunks are drawn from when no reference file is
// configured. It mixes prose with fenced code so both segment kinds show up
// while streaming.
const ReferenceText = "Streaming output arrives a few characters at a time, so a renderer has to cope with " +
	"half-written sentences and half-open code fences. Here is a small example of a rate limiter.\n\n" +
	"```go\n" +
	"func (l *Limiter) Allow(now time.Time) bool {\n" +
	"\tif now.Sub(l.last) < l.every {\n" +
	"\t\treturn false\n" +
	"\t}\n" +
	"\tl.last = now\n" +
	"\treturn true\n" +
	"}\n" +
	"```\n\n" +
	"The same idea in JavaScript keeps a timestamp and compares it on every tick:\n\n" +
	"```js\n" +
	"let last = Date.now();\n" +
	"function allow(delay) {\n" +
	"  const now = Date.now();\n" +
	"  if (now - last < delay) return false;\n" +
	"  last = now;\n" +
	"  return true;\n" +
	"}\n" +
	"```\n\n" +
	"Until the closing fence arrives the block above renders as plain text. Once it is closed the " +
	"whole region switches to a highlighted code block. Faster streams reach that point sooner, " +
	"which is easy to see when two panels run side by side at different rates.\n\n" +
	"```python\n" +
	"def chunks(text, size):\n" +
	"    for i in range(0, len(text), size):\n" +
	"        yield text[i:i + size]\n" +
	"```\n\n" +
	"That is the whole trick. The text wraps around and starts again from the top.\n\n"

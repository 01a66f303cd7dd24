package telegram

import (
	"strings"
	"unicode/utf8"
)

// MessageLimit — максимальная длина сообщения Telegram в символах.
const MessageLimit = 4096

// SplitMessage режет HTML-текст на части не длиннее MessageLimit.
func SplitMessage(text string) []string {
	return SplitMessageN(text, MessageLimit)
}

// SplitMessageN режет HTML-текст на части не длиннее limit символов.
// Разрез ищется сначала между блоками (пустая строка) вне тегов, затем между
// строками, затем по пробелу. Теги и сущности вроде &amp; не разрываются;
// элементы, открытые на месте разреза, закрываются в конце части и открываются
// заново в начале следующей.
func SplitMessageN(text string, limit int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if limit <= 0 {
		limit = MessageLimit
	}
	if utf8.RuneCountInString(trimmed) <= limit {
		return []string{trimmed}
	}

	tokens := tokenize(trimmed)
	var (
		parts []string
		open  []token
	)
	start := 0
	for {
		for start < len(tokens) && tokens[start].blank() {
			start++
		}
		if start >= len(tokens) {
			break
		}
		end, stack := cut(tokens, start, open, limit)
		last := end
		for last > start && tokens[last-1].blank() {
			last--
		}

		var b strings.Builder
		for _, t := range open {
			b.WriteString(t.text)
		}
		for _, t := range tokens[start:last] {
			b.WriteString(t.text)
		}
		for i := len(stack) - 1; i >= 0; i-- {
			b.WriteString(stack[i].closer())
		}
		if last > start {
			parts = append(parts, b.String())
		}
		start, open = end, stack
	}
	return parts
}

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenOpen
	tokenClose
)

// token — неделимый кусок HTML: символ, сущность или тег.
type token struct {
	text string
	kind tokenKind
	name string
}

func (t token) blank() bool {
	return t.kind == tokenText && strings.TrimSpace(t.text) == ""
}

func (t token) closer() string {
	return "</" + t.name + ">"
}

func tokenize(s string) []token {
	var out []token
	for len(s) > 0 {
		switch s[0] {
		case '<':
			if end := strings.IndexByte(s, '>'); end > 0 {
				out = append(out, tagToken(s[:end+1]))
				s = s[end+1:]
				continue
			}
		case '&':
			if end := strings.IndexByte(s, ';'); end > 1 && end <= 10 && !strings.ContainsAny(s[1:end], " <&\n") {
				out = append(out, token{text: s[:end+1]})
				s = s[end+1:]
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(s)
		out = append(out, token{text: s[:size]})
		s = s[size:]
	}
	return out
}

func tagToken(raw string) token {
	body := strings.TrimSuffix(strings.TrimPrefix(raw, "<"), ">")
	kind := tokenOpen
	if strings.HasPrefix(body, "/") {
		kind = tokenClose
		body = body[1:]
	}
	name := body
	if i := strings.IndexAny(body, " \t\n"); i >= 0 {
		name = body[:i]
	}
	return token{text: raw, kind: kind, name: strings.ToLower(name)}
}

// apply возвращает стек открытых тегов после t.
func apply(stack []token, t token) []token {
	switch t.kind {
	case tokenOpen:
		return append(stack[:len(stack):len(stack)], t)
	case tokenClose:
		for i := len(stack) - 1; i >= 0; i-- {
			if stack[i].name == t.name {
				return stack[:i:i]
			}
		}
	}
	return stack
}

func closersLen(stack []token) int {
	n := 0
	for _, t := range stack {
		n += utf8.RuneCountInString(t.closer())
	}
	return n
}

type breakpoint struct {
	at    int
	stack []token
}

// cut находит конец части, начинающейся с tokens[start] при открытых тегах open.
// Возвращает индекс первого токена следующей части и стек тегов на разрезе.
func cut(tokens []token, start int, open []token, limit int) (int, []token) {
	stack := open
	size := 0
	for _, t := range open {
		size += utf8.RuneCountInString(t.text)
	}
	var block, line, space breakpoint
	for i := start; i < len(tokens); i++ {
		t := tokens[i]
		next := apply(stack, t)
		width := utf8.RuneCountInString(t.text)
		if i > start && size+width+closersLen(next) > limit {
			for _, bp := range []breakpoint{block, line, space} {
				if bp.at > start {
					return bp.at, bp.stack
				}
			}
			return i, stack
		}
		size += width
		stack = next
		switch {
		case t.text == "\n" && len(stack) == 0 && i > start && tokens[i-1].text == "\n":
			block = breakpoint{at: i + 1, stack: stack}
		case t.text == "\n" && len(stack) == 0:
			line = breakpoint{at: i + 1, stack: stack}
		case t.text == " " || t.text == "\n":
			space = breakpoint{at: i + 1, stack: stack}
		}
	}
	return len(tokens), stack
}

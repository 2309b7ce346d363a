package services

import "golang.org/x/text/language"

// normalizeLangs canonicalizes a list of language codes through BCP 47
// parsing: "ES" and "es-419" both collapse to "es". Unparseable entries are
// dropped, duplicates removed, order of first appearance kept.
func normalizeLangs(codes []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		tag, err := language.Parse(c)
		if err != nil {
			continue
		}
		base, conf := tag.Base()
		if conf == language.No {
			continue
		}
		code := base.String()
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// normalizeLang canonicalizes a single code, returning "" when invalid.
func normalizeLang(code string) string {
	out := normalizeLangs([]string{code})
	if len(out) == 0 {
		return ""
	}
	return out[0]
}

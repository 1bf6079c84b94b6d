package explorer

import (
	"strings"

	"twopane/internal/constants"
)

// resolveTokens replaces %today%, %creationd% and %creationdt% in s. The
// creation tokens use src's creation time; the file is only inspected when
// one of them is present.
func (f *Facade) resolveTokens(s, src string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}
	pairs := []string{constants.TokenToday, f.now().Format(constants.DateLayout)}

	if strings.Contains(s, constants.TokenCreationDate) || strings.Contains(s, constants.TokenCreationDateTime) {
		created, err := f.ops.CreationTime(src)
		if err != nil {
			return "", err
		}
		created = created.Local()
		pairs = append(pairs,
			constants.TokenCreationDateTime, created.Format(constants.DateTimeLayout),
			constants.TokenCreationDate, created.Format(constants.DateLayout),
		)
	}
	return strings.NewReplacer(pairs...).Replace(s), nil
}

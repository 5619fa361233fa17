package usecase

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/gncci-portal/internal/application/dto"
	"github.com/jhoicas/gncci-portal/internal/domain/entity"
)

// FilterDirectory filtra por texto (nombre o descripción, sin distinguir mayúsculas) y sector exacto.
func FilterDirectory(companies []entity.Company, q dto.DirectoryQuery) []entity.Company {
	term := foldString(strings.TrimSpace(q.Search))
	sector := strings.TrimSpace(q.Sector)
	out := make([]entity.Company, 0, len(companies))
	for _, c := range companies {
		if sector != "" && sector != "all" && c.IndustrySector != sector {
			continue
		}
		if term != "" && !containsFolded(c.Name, term) && (c.Description == nil || !containsFolded(*c.Description, term)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func containsFolded(s, term string) bool {
	return strings.Contains(foldString(s), term)
}

// foldString usa un Caser nuevo por llamada: cases.Caser no se comparte entre goroutines.
func foldString(s string) string {
	return cases.Fold().String(s)
}

// Sectors sectores distintos presentes en el listado, en orden alfabético.
func Sectors(companies []entity.Company) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, c := range companies {
		s := strings.TrimSpace(c.IndustrySector)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	collate.New(language.English, collate.IgnoreCase).SortStrings(out)
	return out
}

package models

// SchoolsList is the fixed set of school affiliations a member may pick from.
var SchoolsList = []string{
	"American", "Ardenwood", "Azevada", "Blacow", "Brier", "Bringhurst",
	"Brookvale", "Cabrillo", "Centerville", "Chadbourne", "Durham",
	"Forest Park", "Glenmoor", "Gomes", "Green", "Grimmer", "Hirsch",
	"Hopkins", "Horner", "Irvington", "Kennedy", "Leitch", "Maloney",
	"Mattos", "Millard", "Mission San Jose Elementary",
	"Mission San Jose High", "Mission Valley", "Niles", "Oliveria",
	"Parkmont", "Patterson", "Robertson", "Thornton", "Vallejo Mill",
	"Walters", "Warm Springs", "Warwick", "Washington", "Weibel",
}

var schoolSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(SchoolsList))
	for _, s := range SchoolsList {
		m[s] = struct{}{}
	}
	return m
}()

func ValidSchool(name string) bool {
	_, ok := schoolSet[name]
	return ok
}

// ValidSchools reports whether every entry names a known school.
func ValidSchools(names []string) bool {
	for _, n := range names {
		if !ValidSchool(n) {
			return false
		}
	}
	return true
}

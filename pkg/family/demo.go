package family

// Demo returns a small three-generation project: a couple, their son and
// his wife who married in, and two grandchildren.
func Demo() *Project {
	p := NewProject("Demo Family")
	p.People = []*Person{
		{ID: "p1", Name: "Walter Hughes", Gender: "Male", BirthYear: "1950", Tag: "Hughes",
			OriginCountry: "Ireland", OriginCity: "Cork", OriginFamilyBranch: "Hughes"},
		{ID: "p2", Name: "Margaret Doyle", Gender: "Female", BirthYear: "1952", Tag: "Doyle",
			OriginCountry: "Ireland", OriginCity: "Limerick", OriginFamilyBranch: "Doyle"},
		{ID: "p3", Name: "Daniel Hughes", Gender: "Male", BirthYear: "1975", Tag: "Hughes",
			OriginCountry: "Ireland", OriginCity: "Cork"},
		{ID: "p4", Name: "Sofia Marin", Gender: "Female", BirthYear: "1978", Tag: "Marin",
			OriginCountry: "Spain", OriginCity: "Valencia", OriginFamilyBranch: "Marin"},
		{ID: "p5", Name: "Liam Hughes", Gender: "Male", BirthYear: "2000", Tag: "Hughes",
			OriginCountry: "Ireland", OriginCity: "Dublin"},
		{ID: "p6", Name: "Clara Hughes", Gender: "Female", BirthYear: "2003", Tag: "Hughes",
			OriginCountry: "Ireland", OriginCity: "Dublin"},
	}
	p.Relations = []Relation{
		{ID: "r1", Type: ParentChild, AID: "p1", BID: "p3"},
		{ID: "r2", Type: ParentChild, AID: "p2", BID: "p3"},
		{ID: "r3", Type: Spouse, AID: "p1", BID: "p2"},
		{ID: "r4", Type: ParentChild, AID: "p3", BID: "p5"},
		{ID: "r5", Type: ParentChild, AID: "p3", BID: "p6"},
		{ID: "r6", Type: ParentChild, AID: "p4", BID: "p5"},
		{ID: "r7", Type: ParentChild, AID: "p4", BID: "p6"},
		{ID: "r8", Type: Spouse, AID: "p3", BID: "p4"},
	}
	return p
}

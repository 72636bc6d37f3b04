package models

// SeedLocations returns the demo pipeline the admin starts with.
func SeedLocations() []*Location {
	seed := []*Location{
		{
			City: "New York", State: "NY", Market: "Existing", Lead: "John Doe", Source: "Referral",
			Revenue: 1200, EBITDA: 300, EBITDAPercentage: 25, RevenuePerProvider: 400, EV: 3600,
			RevenueMultiple: 3, EBITDAMultiple: 12, EquityRollPercentage: 20, CashAtClose: 2880, DebtDrawAmount: 720,
			CloseDate: "2023-06-15", IntegrationBurden: "Medium", OtherKeyDealTerms: "None", NotesStatus: "In progress",
			Logo:        "https://example.com/newyork-logo.png",
			ManagerName: "Alice Johnson", ManagerPhone: "(212) 555-1234", ManagerEmail: "alice@newyorklocation.com",
		},
		{
			City: "Los Angeles", State: "CA", Market: "New", Lead: "Jane Smith", Source: "Direct",
			Revenue: 900, EBITDA: 180, EBITDAPercentage: 20, RevenuePerProvider: 300, EV: 2250,
			RevenueMultiple: 2.5, EBITDAMultiple: 12.5, EquityRollPercentage: 15, CashAtClose: 1912.5, DebtDrawAmount: 337.5,
			CloseDate: "2023-07-01", IntegrationBurden: "Low", OtherKeyDealTerms: "Performance bonus", NotesStatus: "Due diligence",
			Logo:        "https://example.com/losangeles-logo.png",
			ManagerName: "Bob Williams", ManagerPhone: "(310) 555-5678", ManagerEmail: "bob@lalocation.com",
		},
		{
			City: "Chicago", State: "IL", Market: "Existing", Lead: "Mike Johnson", Source: "Broker",
			Revenue: 1500, EBITDA: 450, EBITDAPercentage: 30, RevenuePerProvider: 500, EV: 5400,
			RevenueMultiple: 3.6, EBITDAMultiple: 12, EquityRollPercentage: 25, CashAtClose: 4050, DebtDrawAmount: 1350,
			CloseDate: "2023-08-15", IntegrationBurden: "High", OtherKeyDealTerms: "Earnout clause", NotesStatus: "Negotiation",
			Logo:        "https://example.com/chicago-logo.png",
			ManagerName: "Carol Brown", ManagerPhone: "(312) 555-9012", ManagerEmail: "carol@chicagolocation.com",
		},
	}
	for _, l := range seed {
		l.Documents = DefaultDocuments()
	}
	return seed
}

package agent

// Locator identifies one element of the portal form.
type Locator struct {
	Name     string
	Selector string
	XPath    bool // Selector is an XPath expression rather than a CSS selector
}

// Locators are the portal elements the agent interacts with.
type Locators struct {
	EntryButton Locator
	Role        Locator
	Company     Locator
	City        Locator
	Date        Locator
	Save        Locator
}

// DefaultLocators returns the locators of the activity report form.
func DefaultLocators() Locators {
	return Locators{
		EntryButton: Locator{Name: "sökta jobb button", Selector: `//button[contains(., 'Sökta jobb')]`, XPath: true},
		Role:        Locator{Name: "job role input", Selector: `#soktjobb-soktTjanst`},
		Company:     Locator{Name: "company input", Selector: `#soktjobb-arbetsgivare`},
		City:        Locator{Name: "city input", Selector: `#soktjobb-ort`},
		Date:        Locator{Name: "date input", Selector: `#soktjobb-aktivitetsdatum`},
		Save:        Locator{Name: "save button", Selector: `//button[.//span[text()='Spara']]`, XPath: true},
	}
}

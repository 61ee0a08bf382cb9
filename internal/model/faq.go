package model

// FaqCategory groups FAQ items. DisplayOrder is the persisted sort key.
type FaqCategory struct {
	Name         string `json:"name"`
	Faqs         []Faq  `json:"faqs"`
	ID           int    `json:"id"`
	DisplayOrder int    `json:"displayOrder"`
	// Provisional marks an id assigned locally that the store has not
	// confirmed. Provisional ids are never written as keys.
	Provisional bool `json:"-"`
}

// Faq is a single question and answer.
type Faq struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	ID           int    `json:"id"`
	CategoryID   int    `json:"faqCategoryId"`
	DisplayOrder int    `json:"displayOrder"`
	Provisional  bool   `json:"-"`
	Expanded     bool   `json:"-"`
}

// Clone returns a deep copy of the category.
func (c FaqCategory) Clone() FaqCategory {
	out := c
	out.Faqs = append([]Faq(nil), c.Faqs...)
	return out
}

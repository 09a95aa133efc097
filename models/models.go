package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&BlogPost{},
		&Comment{},
		&Skill{},
		&Project{},
		&ProjectSkill{},
		&CaseStudy{},
		&Contact{},
		&Testimonial{},
		&Experience{},
		&Education{},
		&Certification{},
		&Service{},
		&FAQ{},
		&PageView{},
		&Visitor{},
		&UploadedFile{},
	}
}

package prompt

// defaultTemplates are the starting scripts seeded for a new business.
// Content mirrors what a dental-office receptionist typically needs; each
// template stays editable through the normal prompt CRUD surface.
func defaultTemplates() []Prompt {
	return []Prompt{
		{
			Name:                   "Appointment Scheduling",
			Category:               CategoryScheduling,
			TriggerPhrases:         []string{"schedule", "appointment", "book", "visit", "see the doctor"},
			Content:                "I'd be happy to help you schedule an appointment. Let me get some information from you.",
			AIInstructions:         "Collect patient name, preferred date and time, reason for visit. Be friendly and professional.",
			RequiresInfoCollection: true,
			FieldsToCollect:        []string{"patient_name", "phone_number", "preferred_date", "preferred_time", "reason_for_visit"},
			Priority:               10,
		},
		{
			Name:           "Business Hours",
			Category:       CategoryHours,
			TriggerPhrases: []string{"hours", "open", "close", "when are you open"},
			Content:        "Our office hours are Monday through Friday, 9 AM to 5 PM. We are closed on weekends.",
			AIInstructions: "Provide accurate hours from business profile. Mention if there are any special hours.",
			Priority:       5,
		},
		{
			Name:           "Location/Directions",
			Category:       CategoryLocation,
			TriggerPhrases: []string{"location", "address", "where", "directions", "find you"},
			Content:        "We are located at [ADDRESS]. Would you like me to provide directions?",
			AIInstructions: "Use the business address from profile. Offer to provide landmark references.",
			Priority:       5,
		},
		{
			Name:           "Emergency",
			Category:       CategoryEmergency,
			TriggerPhrases: []string{"emergency", "urgent", "pain", "bleeding", "broken tooth"},
			Content:        "I understand you may be experiencing a dental emergency. If this is a life-threatening emergency, please call 911 immediately. Otherwise, let me connect you with our emergency line.",
			AIInstructions: "Take emergencies seriously. If life-threatening, direct to 911. Otherwise, transfer to emergency line or on-call doctor.",
			Priority:       20,
		},
		{
			Name:           "Insurance Questions",
			Category:       CategoryInsurance,
			TriggerPhrases: []string{"insurance", "coverage", "accept", "payment", "cost"},
			Content:        "We accept most major dental insurance plans. For specific coverage questions, I can have our billing department contact you, or you can bring your insurance card to your appointment.",
			AIInstructions: "Be helpful about insurance. If uncertain, offer to have billing follow up.",
			Priority:       5,
		},
		{
			Name:                   "Cancel/Reschedule",
			Category:               CategoryCancellation,
			TriggerPhrases:         []string{"cancel", "reschedule", "change appointment", "can't make it"},
			Content:                "I can help you with that. Let me look up your appointment. May I have your name and the date of your scheduled appointment?",
			AIInstructions:         "Collect patient name and appointment date. Process cancellation or offer alternative times for rescheduling.",
			RequiresInfoCollection: true,
			FieldsToCollect:        []string{"patient_name", "appointment_date", "new_preferred_date", "new_preferred_time"},
			Priority:               8,
		},
	}
}

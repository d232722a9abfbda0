package causal

// defaultEntries is the built-in table. For pairs defined twice historically,
// the later definition is the one kept.
var defaultEntries = []Entry{
	{"blockchain", "security", "Blockchain transactions rely on cryptographic security; tampering can compromise integrity."},
	{"blockchain", "ethics", "Blockchain voting errors may affect fairness and accountability."},
	{"security", "ethics", "Security breaches can violate ethical principles of transparency and fairness."},
	{"health", "ethics", "Healthcare AI errors can breach patient privacy or violate ethical care standards."},
	{"financial", "ethics", "AI financial recommendations may conflict with ethical and regulatory standards."},
	{"industrial", "safety", "Industrial hazards can compromise worker safety protocols."},
	{"robotics", "safety", "Autonomous robotic actions may risk workplace safety."},
	{"media", "ethics", "AI-generated misinformation in media raises ethical concerns."},
	{"communication", "ethics", "Chatbot or assistant misbehavior can cause ethical or fairness implications."},
	{"transportation", "ethics", "AI in transportation may face ethical dilemmas during emergencies."},
	{"environmental", "ethics", "Neglecting environmental impact can violate ethical sustainability norms."},
	{"health", "safety", "Medical errors can endanger patient safety."},
	{"financial", "security", "Financial data breaches threaten transaction security."},
	{"industrial", "environmental", "Industrial emissions contribute to environmental degradation."},
	{"robotics", "industrial", "Robotics automation impacts industrial efficiency and safety."},
	{"transportation", "safety", "Traffic AI or autonomous vehicles may risk public safety."},
	{"media", "transportation", "Incorrect media reporting on transportation incidents can affect public perception and safety."},
	{"media", "health", "Misinformation in health-related media can endanger patient decisions."},
	{"communication", "safety", "Misinterpreted commands can lead to safety hazards."},
	{"environmental", "safety", "Environmental hazards may threaten human safety."},
	{"robotics", "transportation", "Autonomous robotic systems can interfere with transportation safety."},
}

// Default returns the built-in causal table.
func Default() *Map {
	m, err := New(defaultEntries...)
	if err != nil {
		panic("causal: built-in table is invalid: " + err.Error())
	}
	return m
}

package domain

// EnergyClass is an EU energy performance certificate label.
type EnergyClass string

const (
	EnergyAPlus EnergyClass = "A+"
	EnergyA     EnergyClass = "A"
	EnergyBPlus EnergyClass = "B+"
	EnergyB     EnergyClass = "B"
	EnergyCPlus EnergyClass = "C+"
	EnergyC     EnergyClass = "C"
	EnergyD     EnergyClass = "D"
	EnergyE     EnergyClass = "E"
	EnergyF     EnergyClass = "F"
	EnergyG     EnergyClass = "G"

	// EnergyUnknown marks listings that do not publish a certificate.
	EnergyUnknown EnergyClass = ""
)

// recognizedClasses are the labels that appear on Greek energy certificates,
// including the B+/C+ split grades.
var recognizedClasses = map[EnergyClass]struct{}{
	EnergyAPlus: {},
	EnergyA:     {},
	EnergyBPlus: {},
	EnergyB:     {},
	EnergyCPlus: {},
	EnergyC:     {},
	EnergyD:     {},
	EnergyE:     {},
	EnergyF:     {},
	EnergyG:     {},
}

// Valid reports whether c is a recognized label. EnergyUnknown is not valid
// on its own; callers treat absence as a separate case.
func (c EnergyClass) Valid() bool {
	_, ok := recognizedClasses[c]
	return ok
}

// RecognizedEnergyClasses returns all recognized labels, best to worst.
func RecognizedEnergyClasses() []EnergyClass {
	return []EnergyClass{
		EnergyAPlus, EnergyA, EnergyBPlus, EnergyB, EnergyCPlus,
		EnergyC, EnergyD, EnergyE, EnergyF, EnergyG,
	}
}

package consts

const (
	HBAR   = 1.054571817e-34   // Reduced Planck constant (J s)
	CHARGE = 1.602176634e-19   // Elementary charge (C)
	BOHR   = 5.29177210903e-11 // Bohr radius (m)
)

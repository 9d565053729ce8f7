package auth

// Role is a user's role in the platform
type Role string

const (
	// RoleDonor is a blood donor
	RoleDonor Role = "DONOR"
	// RolePatient is a patient requiring transfusions
	RolePatient Role = "PATIENT"
	// RoleAdmin is a system administrator
	RoleAdmin Role = "ADMIN"
	// RoleBloodBankStaff is blood bank staff
	RoleBloodBankStaff Role = "BLOOD_BANK_STAFF"
	// RoleHospitalStaff is hospital staff
	RoleHospitalStaff Role = "HOSPITAL_STAFF"
	// RoleNGOCoordinator is an NGO coordinator
	RoleNGOCoordinator Role = "NGO_COORDINATOR"
	// RoleMedicalProfessional is a licensed medical professional
	RoleMedicalProfessional Role = "MEDICAL_PROFESSIONAL"
)

type roleInfo struct {
	authority   string
	description string
}

var roleRegistry = map[Role]roleInfo{
	RoleDonor:               {"ROLE_DONOR", "Blood Donor"},
	RolePatient:             {"ROLE_PATIENT", "Patient requiring transfusions"},
	RoleAdmin:               {"ROLE_ADMIN", "System Administrator"},
	RoleBloodBankStaff:      {"ROLE_BLOOD_BANK_STAFF", "Blood Bank Staff"},
	RoleHospitalStaff:       {"ROLE_HOSPITAL_STAFF", "Hospital Staff"},
	RoleNGOCoordinator:      {"ROLE_NGO_COORDINATOR", "NGO Coordinator"},
	RoleMedicalProfessional: {"ROLE_MEDICAL_PROFESSIONAL", "Medical Professional"},
}

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	_, ok := roleRegistry[r]
	return ok
}

// Authority returns the permission grant string embedded in tokens
// for downstream authorization decisions.
func (r Role) Authority() string {
	return roleRegistry[r].authority
}

// Description returns the human readable description of the role
func (r Role) Description() string {
	return roleRegistry[r].description
}

// AutoVerified reports whether accounts with this role are verified at
// creation. All other roles start unverified and require VerifyUser.
func (r Role) AutoVerified() bool {
	switch r {
	case RoleAdmin, RoleBloodBankStaff, RoleHospitalStaff:
		return true
	default:
		return false
	}
}

// AllRoles returns all predefined roles
func AllRoles() []Role {
	return []Role{
		RoleDonor,
		RolePatient,
		RoleAdmin,
		RoleBloodBankStaff,
		RoleHospitalStaff,
		RoleNGOCoordinator,
		RoleMedicalProfessional,
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}

// IsEnabled reports whether the account can exercise its capabilities.
// Kept off the entity so the data record stays behavior free.
func IsEnabled(u *User) bool {
	if u == nil {
		return false
	}
	return u.IsActive && u.IsVerified
}

// Authorities computes the authority grants for a user
func Authorities(u *User) []string {
	if u == nil || !u.Role.IsValid() {
		return nil
	}
	return []string{u.Role.Authority()}
}

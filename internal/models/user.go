package models

// Role is a user's single, immutable role.
type Role string

const (
	RoleHotel     Role = "hotel"
	RoleNGO       Role = "ngo"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleHotel, RoleNGO, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// CanClaim reports whether the role belongs to the permitted claimant set.
func (r Role) CanClaim() bool {
	return r == RoleNGO || r == RoleVolunteer
}

// HotelProfile carries the hotel-role extension fields.
type HotelProfile struct {
	FssaiNumber   string `bson:"fssaiNumber" json:"fssaiNumber"`
	ContactPerson string `bson:"contactPerson" json:"contactPerson"`
	BusinessType  string `bson:"businessType" json:"businessType"` // hotel, restaurant, shop, other
}

// NGOProfile carries the ngo-role extension fields.
type NGOProfile struct {
	RegistrationNumber string `bson:"registrationNumber" json:"registrationNumber"`
	ContactPerson      string `bson:"contactPerson" json:"contactPerson"`
	BeneficiaryCount   int    `bson:"beneficiaryCount" json:"beneficiaryCount"`
}

// DayAvailability is a volunteer's availability for one weekday.
type DayAvailability struct {
	Available bool     `bson:"available" json:"available"`
	TimeSlots []string `bson:"timeSlots,omitempty" json:"timeSlots,omitempty"`
}

// VolunteerProfile carries the volunteer-role extension fields.
type VolunteerProfile struct {
	Availability      map[string]DayAvailability `bson:"availability" json:"availability"`
	TrainingCompleted bool                       `bson:"trainingCompleted" json:"trainingCompleted"`
	ActiveArea        string                     `bson:"activeArea" json:"activeArea"`
}

// AdminProfile carries the admin-role extension fields.
type AdminProfile struct {
	Permissions []string `bson:"permissions" json:"permissions"`
}

// User is an actor with exactly one role. The role-specific profile pointers
// form a tagged variant over Role: at most the one matching the role is set.
type User struct {
	ID              string   `bson:"_id" json:"id"`
	Email           string   `bson:"email" json:"email"`
	Password        string   `bson:"password" json:"-"`
	Name            string   `bson:"name" json:"name"`
	Role            Role     `bson:"role" json:"role"`
	Phone           string   `bson:"phone" json:"phone"`
	Address         string   `bson:"address" json:"address"`
	Location        GeoPoint `bson:"location" json:"location"`
	ProfileComplete bool     `bson:"profileComplete" json:"profileComplete"`
	CreatedAt       int64    `bson:"createdAt" json:"createdAt"`

	Hotel     *HotelProfile     `bson:"hotelProfile,omitempty" json:"hotelProfile,omitempty"`
	NGO       *NGOProfile       `bson:"ngoProfile,omitempty" json:"ngoProfile,omitempty"`
	Volunteer *VolunteerProfile `bson:"volunteerProfile,omitempty" json:"volunteerProfile,omitempty"`
	Admin     *AdminProfile     `bson:"adminProfile,omitempty" json:"adminProfile,omitempty"`
}

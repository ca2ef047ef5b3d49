package domain

type PackageType string

const (
	PackageActivity    PackageType = "ACTIVITY"
	PackageTransfers   PackageType = "TRANSFERS"
	PackageLandPackage PackageType = "LAND_PACKAGE"
	PackageHotel       PackageType = "HOTEL"
	PackageCruise      PackageType = "CRUISE"
	PackageFlight      PackageType = "FLIGHT"
	PackageCombo       PackageType = "COMBO"
	PackageCustom      PackageType = "CUSTOM"
)

// ValidPackageTypes is the canonical set of accepted package type strings.
var ValidPackageTypes = map[PackageType]bool{
	PackageActivity: true, PackageTransfers: true, PackageLandPackage: true,
	PackageHotel: true, PackageCruise: true, PackageFlight: true,
	PackageCombo: true, PackageCustom: true,
}

type ActivityType string

const (
	ActivityPackage       ActivityType = "PACKAGE"
	ActivityTransfer      ActivityType = "TRANSFER"
	ActivityMeal          ActivityType = "MEAL"
	ActivityAccommodation ActivityType = "ACCOMMODATION"
	ActivityCustom        ActivityType = "CUSTOM"
)

// ValidActivityTypes is the canonical set of accepted activity type strings.
var ValidActivityTypes = map[ActivityType]bool{
	ActivityPackage: true, ActivityTransfer: true, ActivityMeal: true,
	ActivityAccommodation: true, ActivityCustom: true,
}

// WizardStep is one of the linear stages of itinerary assembly.
type WizardStep string

const (
	StepPackageSelection WizardStep = "PACKAGE_SELECTION"
	StepDayPlanning      WizardStep = "DAY_PLANNING"
	StepDetails          WizardStep = "DETAILS"
	StepReview           WizardStep = "REVIEW"
)

// WizardSteps lists the steps in traversal order.
var WizardSteps = []WizardStep{StepPackageSelection, StepDayPlanning, StepDetails, StepReview}

// Index returns the position of s in WizardSteps, or -1 when unknown.
func (s WizardStep) Index() int {
	for i, step := range WizardSteps {
		if step == s {
			return i
		}
	}
	return -1
}

type LeadStatus string

const (
	LeadAvailable LeadStatus = "available"
	LeadPurchased LeadStatus = "purchased"
	LeadArchived  LeadStatus = "archived"
)

type PackageStatus string

const (
	PackageStatusActive   PackageStatus = "active"
	PackageStatusInactive PackageStatus = "inactive"
)

type DraftStatus string

const (
	DraftOpen      DraftStatus = "draft"
	DraftFinalized DraftStatus = "finalized"
)

type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "super_admin"
	RoleTourOperator Role = "tour_operator"
	RoleTravelAgent  Role = "travel_agent"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[Role]bool{
	RoleAdmin: true, RoleSuperAdmin: true, RoleTourOperator: true, RoleTravelAgent: true,
}

type SortKey string

const (
	SortRecommended SortKey = "recommended"
	SortPrice       SortKey = "price"
	SortRating      SortKey = "rating"
	SortDuration    SortKey = "duration"
	SortTitle       SortKey = "title"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
)

// Package employee generates synthetic employee profiles for onboarding
// sessions. A profile is generated once per session and never mutated.
package employee

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/umbrellahq/onboard/internal/models"
)

var firstNames = []string{
	"Alice", "Marcus", "Jill", "Leon", "Claire", "Ada", "Chris", "Rebecca",
	"Carlos", "Sherry", "Barry", "Annette", "William", "Hunk", "Ingrid",
}

var lastNames = []string{
	"Abernathy", "Kendo", "Valentine", "Kennedy", "Redfield", "Wong",
	"Birkin", "Chambers", "Oliveira", "Burton", "Coen", "Marini", "Vickers",
}

var positions = []string{
	"Research Scientist",
	"Software Engineer",
	"Operations Manager",
	"HR Specialist",
	"Security Officer",
}

var departments = []string{"R&D", "IT", "Operations", "HR", "Security"}

var skills = []string{
	"Python", "Project Management", "Data Analysis",
	"Genetic Research", "Cybersecurity", "Machine Learning",
	"Leadership", "Database Management", "Public Speaking",
}

var locations = []string{
	"Raccoon City HQ",
	"Umbrella Europe",
	"Umbrella Asia",
	"Umbrella North America",
	"Umbrella South America",
}

// Generator produces synthetic employee profiles.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded from the current time.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed returns a generator with a fixed seed, for reproducible
// profiles in tests.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces one synthetic employee profile.
func (g *Generator) Generate() models.EmployeeProfile {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	supervisor := fmt.Sprintf("%s %s",
		firstNames[g.rng.Intn(len(firstNames))],
		lastNames[g.rng.Intn(len(lastNames))],
	)
	hireDate := time.Now().AddDate(0, 0, -(1 + g.rng.Intn(365*10)))

	return models.EmployeeProfile{
		EmployeeID:  uuid.New().String(),
		Name:        first,
		LastName:    last,
		Email:       fmt.Sprintf("%s.%s@umbrella.example", strings.ToLower(first), strings.ToLower(last)),
		PhoneNumber: fmt.Sprintf("+1-555-%03d-%04d", g.rng.Intn(1000), g.rng.Intn(10000)),
		Position:    positions[g.rng.Intn(len(positions))],
		Department:  departments[g.rng.Intn(len(departments))],
		Skills:      g.pickSkills(),
		Location:    locations[g.rng.Intn(len(locations))],
		HireDate:    hireDate.Format("2006-01-02"),
		Supervisor:  supervisor,
		Salary:      40000 + g.rng.Float64()*80000,
	}
}

func (g *Generator) pickSkills() []string {
	n := 2 + g.rng.Intn(4) // 2-5 skills
	perm := g.rng.Perm(len(skills))
	picked := make([]string, n)
	for i := 0; i < n; i++ {
		picked[i] = skills[perm[i]]
	}
	return picked
}

// PromptBlock renders the profile as the plain-text block embedded in the
// assistant's system prompt.
func PromptBlock(p models.EmployeeProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s %s\n", p.Name, p.LastName)
	fmt.Fprintf(&b, "Position: %s\n", p.Position)
	fmt.Fprintf(&b, "Department: %s\n", p.Department)
	fmt.Fprintf(&b, "Location: %s\n", p.Location)
	fmt.Fprintf(&b, "Hire date: %s\n", p.HireDate)
	fmt.Fprintf(&b, "Supervisor: %s\n", p.Supervisor)
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&b, "Email: %s", p.Email)
	return b.String()
}

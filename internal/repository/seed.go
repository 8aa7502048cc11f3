package repository

import (
	"fmt"

	"github.com/noah-isme/exam-prep-api/internal/models"
)

// FirstImportedQuestionID is the id handed to the first question created after seeding.
const FirstImportedQuestionID int64 = 49621

// SeedData is the sample catalogue both store drivers start from.
type SeedData struct {
	Subjects         []models.Subject
	Chapters         []models.Chapter
	Topics           []models.Topic
	QuestionTypes    []models.QuestionType
	DifficultyLevels []models.DifficultyLevel
	Questions        []models.Question
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

const triangleSVG = `<svg viewBox="0 0 100 100" xmlns="http://www.w3.org/2000/svg">
        <polygon points="10,80 90,80 50,20" fill="none" stroke="#4F46E5" stroke-width="2"/>
        <text x="5" y="85" font-size="10">A</text>
        <text x="90" y="85" font-size="10">B</text>
        <text x="50" y="15" font-size="10">C</text>
        <text x="50" y="60" font-size="10">θ</text>
      </svg>`

// DefaultSeed returns a fresh copy of the sample catalogue: four subjects, the physics
// chapters, the "Motion in a Plane" topics (including its All row) and 27 questions.
func DefaultSeed() SeedData {
	seed := SeedData{
		Subjects: []models.Subject{
			{ID: 1, Name: "PHYSICS", Description: strPtr("Study of matter, energy, and their interactions")},
			{ID: 2, Name: "CHEMISTRY", Description: strPtr("Study of substances, their properties, and reactions")},
			{ID: 3, Name: "MATHEMATICS", Description: strPtr("Study of numbers, quantities, and shapes")},
			{ID: 4, Name: "BIOLOGY", Description: strPtr("Study of living organisms")},
		},
		Chapters: []models.Chapter{
			{ID: 1, Name: "Kinematics", Number: 1, SubjectID: 1, Description: strPtr("Study of motion without considering its causes")},
			{ID: 2, Name: "Dynamics", Number: 2, SubjectID: 1, Description: strPtr("Study of forces and their effects on motion")},
			{ID: 3, Name: "Work and Energy", Number: 3, SubjectID: 1, Description: strPtr("Concepts of work, energy, and power")},
			{ID: 4, Name: "Motion in a Plane", Number: 4, SubjectID: 1, Description: strPtr("Two-dimensional motion and projectiles")},
		},
		Topics: []models.Topic{
			{ID: 1, Name: "Vectors", ChapterID: 4, Description: strPtr("Vector quantities and operations")},
			{ID: 2, Name: "Projectile Motion", ChapterID: 4, Description: strPtr("Motion under gravity in two dimensions")},
			{ID: 3, Name: "Circular Motion", ChapterID: 4, Description: strPtr("Motion in a circular path")},
			{ID: 4, Name: "All", ChapterID: 4, Description: strPtr("All topics in the chapter")},
		},
		QuestionTypes: []models.QuestionType{
			{ID: 1, Name: "SINGLE CORRECT MCQ", Description: strPtr("Multiple choice with single correct answer")},
			{ID: 2, Name: "MULTIPLE CORRECT MCQ", Description: strPtr("Multiple choice with multiple correct answers")},
			{ID: 3, Name: "NUMERICAL VALUE", Description: strPtr("Direct numerical answer required")},
			{ID: 4, Name: "MATRIX MATCH", Description: strPtr("Match items between columns")},
		},
		DifficultyLevels: []models.DifficultyLevel{
			{ID: 1, Name: "EASY", Description: strPtr("Basic level questions")},
			{ID: 2, Name: "MEDIUM", Description: strPtr("Moderate difficulty")},
			{ID: 3, Name: "HARD", Description: strPtr("Challenging questions")},
			{ID: 4, Name: "ADVANCED", Description: strPtr("Very difficult questions")},
		},
	}

	seed.Questions = []models.Question{
		physics(49587, "A particle is moving on a circular path of radius r with uniform speed v. What is the displacement of the particle after it has described an angle of 60°?",
			models.Options{"r√2", "r√3", "r", "2r"}, "c", 3),
		physics(49590, "The position vector of a particle moving in a plane is given by r = (3t²i + 4t³j) m, where t is in seconds. The magnitude of the velocity at t = 2s is:",
			models.Options{"12 m/s", "20 m/s", "24 m/s", "36 m/s"}, "d", 1),
		physics(49592, "A ball is thrown horizontally from a height of 20m with a velocity of 15 m/s. The horizontal distance traveled before it hits the ground is:",
			models.Options{"30 m", "30√2 m", "15√2 m", "45 m"}, "b", 2),
	}

	cosine := physics(49595, "According to cosine formula:",
		models.Options{"|a-b|² = a² + b² - 2ab·cosθ", "|a-b|² = a² + b² - 2ab·sinθ", "|a-b|² = a² + b² - 2ab·cosθ", "|a-b|² = a² - b² + 2ab·cosθ"}, "c", 1)
	cosine.HasDiagram = true
	cosine.DiagramSVG = strPtr(triangleSVG)
	seed.Questions = append(seed.Questions, cosine)

	seed.Questions = append(seed.Questions, physics(49597, "A projectile is fired at an angle θ to the horizontal with initial velocity v. The maximum height reached by the projectile is:",
		models.Options{"v²sin²θ/2g", "v²sin²θ/g", "v²sin2θ/2g", "v²sin2θ/g"}, "a", 2))

	for i := int64(49598); i < FirstImportedQuestionID; i++ {
		seed.Questions = append(seed.Questions, physics(i, fmt.Sprintf("Sample physics question #%d", i),
			models.Options{"Option A", "Option B", "Option C", "Option D"}, "a", 1))
	}

	return seed
}

// physics builds a medium, single-correct question in Physics / Motion in a Plane.
func physics(qid int64, content string, options models.Options, answer string, topicID int64) models.Question {
	return models.Question{
		ID:                qid,
		Content:           content,
		Options:           options,
		CorrectAnswer:     answer,
		SubjectID:         1,
		ChapterID:         4,
		TopicID:           int64Ptr(topicID),
		DifficultyLevelID: 2,
		QuestionTypeID:    1,
	}
}

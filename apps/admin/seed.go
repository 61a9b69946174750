package main

import (
	"errors"
	"fmt"

	"github.com/arcacademy/courseflow/core/catalog"
	"github.com/arcacademy/courseflow/core/student"
)

var errStoreNotEmpty = errors.New("store already holds students or courses; refusing to seed")

var (
	seedStudents = []student.NewStudent{
		{ID: "100001", Name: "Avery Johnson", GradeLevel: "9"},
		{ID: "100002", Name: "Jordan Lee", GradeLevel: "10"},
		{ID: "100003", Name: "Sam Reyes", GradeLevel: "11"},
	}
	seedCourses = []catalog.NewCourse{
		{Code: "ENG9", Name: "English 9 (ENG9)", SubjectArea: "ELA", GradeMin: "9", GradeMax: "9", TeacherName: "R. Patel", TeacherEmail: "patel@school.org", Room: "204"},
		{Code: "ALG1", Name: "Algebra I (ALG1)", SubjectArea: "Math", GradeMin: "9", GradeMax: "10", TeacherName: "M. Chen", TeacherEmail: "chen@school.org", Room: "117"},
		{Code: "BIO", Name: "Biology (BIO)", SubjectArea: "Science", GradeMin: "9", GradeMax: "10", RequiresApproval: true, TeacherName: "A. Singh", TeacherEmail: "singh@school.org", Room: "301"},
		{Code: "PE9", Name: "Physical Education (PE9)", SubjectArea: "PE/Health", GradeMin: "9", GradeMax: "12", TeacherName: "D. Brooks", TeacherEmail: "brooks@school.org", Room: "GYM"},
		{Code: "WELD1", Name: "Welding I (WELD1)", SubjectArea: "CTE", GradeMin: "10", GradeMax: "12", RequiresApproval: true, TeacherName: "T. Gomez", TeacherEmail: "gomez@school.org", Room: "SHOP"},
	}
)

// seed loads a small sample data set so a fresh install can be explored.
func (cli *commandLine) seed() error {
	students, err := cli.studentSvc.QueryAll()
	if err != nil {
		return err
	}
	courses, err := cli.catalogSvc.QueryAll()
	if err != nil {
		return err
	}
	if len(students) > 0 || len(courses) > 0 {
		return errStoreNotEmpty
	}

	for _, ns := range seedStudents {
		if _, err := cli.studentSvc.Create(ns); err != nil {
			return err
		}
	}
	for _, nc := range seedCourses {
		if _, err := cli.catalogSvc.Create(nc); err != nil {
			return err
		}
	}
	fmt.Printf("seeded %d students and %d courses\n", len(seedStudents), len(seedCourses))
	return nil
}

package domain

import (
	"encoding/json"
	"fmt"
)

// DecodeRecord unmarshals a raw JSON payload into the concrete record
// type for the given collection.
func DecodeRecord(collection Collection, data []byte) (Record, error) {
	target := func() any {
		switch collection {
		case CollectionStudents:
			return &Student{}
		case CollectionAssignments:
			return &Assignment{}
		case CollectionEvents:
			return &CalendarEvent{}
		case CollectionBehavior:
			return &BehaviorLog{}
		case CollectionFinance:
			return &FinanceEvent{}
		case CollectionStaffTasks:
			return &StaffTask{}
		case CollectionBooks:
			return &Book{}
		default:
			return nil
		}
	}()
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch v := target.(type) {
	case *Student:
		return *v, nil
	case *Assignment:
		return *v, nil
	case *CalendarEvent:
		return *v, nil
	case *BehaviorLog:
		return *v, nil
	case *FinanceEvent:
		return *v, nil
	case *StaffTask:
		return *v, nil
	case *Book:
		return *v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
}

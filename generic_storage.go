/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entitydao

import (
	"fmt"
	"reflect"

	"github.com/suparena/entitydao/datastore"
	"github.com/suparena/entitydao/errors"
)

// GetDAO returns the table manager registered under name as a DAO for
// model M. A manager serving another model is a validation error.
func GetDAO[M any](s Storage, name string) (datastore.DAO[M], error) {
	tm, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	dao, ok := tm.(datastore.DAO[M])
	if !ok {
		return nil, errors.NewValidationError(name,
			fmt.Sprintf("registered %T is not a %s DAO", tm, reflect.TypeFor[M]()))
	}
	return dao, nil
}

// DAONames lists, in sorted order, the registered names whose manager is
// a DAO for model M.
func DAONames[M any](s Storage) []string {
	var names []string
	for _, name := range s.Names() {
		if _, err := GetDAO[M](s, name); err == nil {
			names = append(names, name)
		}
	}
	return names
}

// RegisterDAOs registers every DAO under its table name.
func RegisterDAOs[M any](s Storage, daos ...datastore.DAO[M]) error {
	for _, dao := range daos {
		if dao == nil {
			return errors.NewValidationError("dao", "dao is required")
		}
		if err := s.Register(dao.TableName(), dao); err != nil {
			return err
		}
	}
	return nil
}

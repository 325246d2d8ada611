// Package regression fits small feed-forward regression models.
//
// A model has one hidden layer and a linear scalar output. It is trained by
// minimizing mean squared error with mini-batch gradient updates for a fixed
// number of epochs. There is no validation split and no early stopping.
//
// Fit returns an immutable *Model. Predict never mutates the model, so a
// fitted model can be shared between goroutines without locking.
package regression
